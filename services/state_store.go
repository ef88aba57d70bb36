package services

import (
	"context"
	"fmt"
	"time"

	"reward-claim-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRewardState is the per-user completion state, assembled from the profile
// row and completion rows. Absent rows read as the default state.
type UserRewardState struct {
	ExternalUserID   string
	CompletedOneTime map[string]bool
	LastDailyCheckin *time.Time
}

// StateStore reads and writes per-user task-completion state. Writes run only
// inside the claim transaction (the mark/touch methods are unexported and take
// the tx handle), never on their own.
type StateStore struct {
	DB *gorm.DB
}

func NewStateStore(db *gorm.DB) *StateStore {
	return &StateStore{DB: db}
}

// Load returns the user's completion state. Missing rows are the normal
// default — nothing completed, no check-in recorded — not an error.
func (s *StateStore) Load(ctx context.Context, externalUserID string) (*UserRewardState, error) {
	state := &UserRewardState{
		ExternalUserID:   externalUserID,
		CompletedOneTime: make(map[string]bool),
	}

	var profile models.Profile
	err := s.DB.WithContext(ctx).Where("external_user_id = ?", externalUserID).First(&profile).Error
	if err == nil {
		state.LastDailyCheckin = profile.LastDailyCheckin
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var completions []models.TaskCompletion
	if err := s.DB.WithContext(ctx).
		Where("external_user_id = ? AND claim_day = ''", externalUserID).
		Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	for _, comp := range completions {
		state.CompletedOneTime[comp.TaskID] = true
	}

	return state, nil
}

// markCompletion attempts the conditional insert that both checks and records
// eligibility in one statement. Returns false when the (user, task, day)
// window was already claimed.
func (s *StateStore) markCompletion(tx *gorm.DB, externalUserID string, task models.Task, claimDay string) (bool, error) {
	row := models.TaskCompletion{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		TaskID:         task.ID,
		ClaimDay:       claimDay,
		Amount:         task.RewardAmount,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "external_user_id"},
			{Name: "task_id"},
			{Name: "claim_day"},
		},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// touchDailyCheckin records the check-in timestamp on the profile.
func (s *StateStore) touchDailyCheckin(tx *gorm.DB, externalUserID string, now time.Time) error {
	return tx.Model(&models.Profile{}).
		Where("external_user_id = ?", externalUserID).
		UpdateColumn("last_daily_checkin", now).Error
}

// sameCalendarDay compares calendar dates, not 24h rolling windows.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
