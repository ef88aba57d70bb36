package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"reward-claim-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Claim status values. already_claimed is a normal negative result, not a fault.
const (
	ClaimStatusCredited       = "credited"
	ClaimStatusAlreadyClaimed = "already_claimed"
)

var (
	// ErrUnknownTask means the task id is not in the catalog — a caller bug.
	ErrUnknownTask = errors.New("unknown task")
	// ErrStorageUnavailable is transient. Claims are idempotent, so callers
	// may always retry on it.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ClaimResult is the outcome of one claim attempt.
type ClaimResult struct {
	Status         string `json:"status"`
	NewBalance     int64  `json:"new_balance"`
	ExternalAction string `json:"external_action,omitempty"`
}

// ClaimService coordinates eligibility, crediting and completion marking as
// one transaction per claim.
type ClaimService struct {
	DB       *gorm.DB
	Registry *TaskRegistry
	Ledger   *LedgerService
	State    *StateStore
	Timeout  time.Duration
}

func NewClaimService(db *gorm.DB, registry *TaskRegistry) *ClaimService {
	return &ClaimService{
		DB:       db,
		Registry: registry,
		Ledger:   NewLedgerService(db),
		State:    NewStateStore(db),
		Timeout:  5 * time.Second,
	}
}

// claimDayKey is the uniqueness window for a claim: one-time tasks share a
// single window forever, daily tasks get one per calendar date of now.
func claimDayKey(task models.Task, now time.Time) string {
	if task.Kind == models.TaskKindDaily {
		return now.Format("2006-01-02")
	}
	return ""
}

// Claim credits the task's reward exactly once per eligibility window.
// Concurrent claims for the same (user, task) window race on the completion
// row's unique index inside the transaction: exactly one wins the insert and
// credits, the rest see already_claimed with no side effects.
func (s *ClaimService) Claim(ctx context.Context, externalUserID, taskID string, now time.Time) (*ClaimResult, error) {
	task, ok := s.Registry.Get(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	day := claimDayKey(task, now)

	var result ClaimResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		won, err := s.State.markCompletion(tx, externalUserID, task, day)
		if err != nil {
			return fmt.Errorf("mark completion: %w", err)
		}
		if !won {
			bal, err := s.Ledger.balanceIn(tx, externalUserID)
			if err != nil {
				return fmt.Errorf("read balance: %w", err)
			}
			result = ClaimResult{Status: ClaimStatusAlreadyClaimed, NewBalance: bal}
			return nil
		}

		newBalance, err := s.Ledger.Credit(tx, externalUserID, task.ID, day, task.RewardAmount)
		if err != nil {
			return err
		}
		if task.Kind == models.TaskKindDaily {
			if err := s.State.touchDailyCheckin(tx, externalUserID, now); err != nil {
				return fmt.Errorf("touch daily check-in: %w", err)
			}
		}

		result = ClaimResult{
			Status:         ClaimStatusCredited,
			NewBalance:     newBalance,
			ExternalAction: task.ExternalAction,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: claim timed out after %s", ErrStorageUnavailable, s.Timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	log.Printf("[CLAIM] user=%s task=%s status=%s balance=%d",
		externalUserID, taskID, result.Status, result.NewBalance)
	return &result, nil
}

// --- Fiber handlers ---

// ListTasks returns the catalog annotated with the caller's claim state, so
// the client can render "Completed" instead of a claim button.
func (s *ClaimService) ListTasks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	state, err := s.State.Load(c.Context(), userID)
	if err != nil {
		log.Printf("[CLAIM] failed to load state for %s: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "storage unavailable, retry"})
	}

	type taskView struct {
		models.Task
		Claimed bool `json:"claimed"`
	}

	now := time.Now()
	out := make([]taskView, 0, len(s.Registry.tasks))
	for _, t := range s.Registry.List() {
		claimed := false
		switch t.Kind {
		case models.TaskKindOneTime:
			claimed = state.CompletedOneTime[t.ID]
		case models.TaskKindDaily:
			claimed = state.LastDailyCheckin != nil && sameCalendarDay(*state.LastDailyCheckin, now)
		}
		out = append(out, taskView{Task: t, Claimed: claimed})
	}

	return c.JSON(out)
}

// ClaimTask handles POST /tasks/:id/claim for the authenticated user.
func (s *ClaimService) ClaimTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	taskID := c.Params("id")

	result, err := s.Claim(c.Context(), userID, taskID, time.Now())
	if err != nil {
		if errors.Is(err, ErrUnknownTask) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown task"})
		}
		log.Printf("❌ [CLAIM] user=%s task=%s failed: %v", userID, taskID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "storage unavailable, retry"})
	}

	return c.JSON(fiber.Map{
		"ok":              result.Status == ClaimStatusCredited,
		"status":          result.Status,
		"new_balance":     result.NewBalance,
		"external_action": result.ExternalAction,
	})
}

// GetBalance returns the caller's current balance.
func (s *ClaimService) GetBalance(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	bal, err := s.Ledger.Balance(c.Context(), userID)
	if err != nil {
		log.Printf("[CLAIM] failed to read balance for %s: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "storage unavailable, retry"})
	}
	return c.JSON(fiber.Map{"balance": bal})
}

// GetClaimHistory returns the caller's recent credits, newest first.
func (s *ClaimService) GetClaimHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	entries, err := s.Ledger.History(c.Context(), userID, limit)
	if err != nil {
		log.Printf("[CLAIM] failed to read history for %s: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "storage unavailable, retry"})
	}
	return c.JSON(entries)
}
