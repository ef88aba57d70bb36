package services

import (
	"context"
	"fmt"

	"reward-claim-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns the reward balance. It is the sole writer of
// profiles.balance in this service, and it only ever adds.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// EnsureProfile creates the profile row if missing (idempotent). A missing
// profile is the normal zero state for a user who never claimed, not an error.
func (s *LedgerService) EnsureProfile(tx *gorm.DB, externalUserID string) error {
	profile := models.Profile{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}},
		DoNothing: true,
	}).Create(&profile).Error
}

// Credit adds amount to the balance with an atomic SQL add — never a
// read-modify-write of a value loaded earlier — and appends the audit entry,
// all inside the caller's transaction. Returns the resulting balance.
func (s *LedgerService) Credit(tx *gorm.DB, externalUserID, taskID, claimDay string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit amount must be non-negative, got %d", amount)
	}

	if err := s.EnsureProfile(tx, externalUserID); err != nil {
		return 0, fmt.Errorf("ensure profile: %w", err)
	}

	res := tx.Model(&models.Profile{}).
		Where("external_user_id = ?", externalUserID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("credit balance: %w", res.Error)
	}

	newBalance, err := s.balanceIn(tx, externalUserID)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}

	entry := models.CreditEntry{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		TaskID:         taskID,
		Amount:         amount,
		BalanceAfter:   newBalance,
		ClaimDay:       claimDay,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("append credit entry: %w", err)
	}

	return newBalance, nil
}

// balanceIn reads the balance on the given handle; a missing profile reads as 0.
func (s *LedgerService) balanceIn(tx *gorm.DB, externalUserID string) (int64, error) {
	var profile models.Profile
	err := tx.Where("external_user_id = ?", externalUserID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return profile.Balance, nil
}

// Balance returns the current balance for a user.
func (s *LedgerService) Balance(ctx context.Context, externalUserID string) (int64, error) {
	bal, err := s.balanceIn(s.DB.WithContext(ctx), externalUserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return bal, nil
}

// History returns recent credit entries for a user, newest first.
func (s *LedgerService) History(ctx context.Context, externalUserID string, limit int) ([]models.CreditEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var entries []models.CreditEntry
	err := s.DB.WithContext(ctx).
		Where("external_user_id = ?", externalUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return entries, nil
}
