package models

import "time"

// TaskCompletion = one successful task credit. The composite unique index is
// the eligibility guard: inserting with ON CONFLICT DO NOTHING either wins the
// claim or reports it already taken, in a single statement, so check-and-mark
// cannot race.
//
// One-time tasks store ClaimDay = "" (one window forever); daily tasks store
// the calendar date of the claim ("2006-01-02"), one window per day.
type TaskCompletion struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"not null;uniqueIndex:idx_user_task_day" json:"external_user_id"`
	TaskID         string    `gorm:"not null;uniqueIndex:idx_user_task_day" json:"task_id"`
	ClaimDay       string    `gorm:"not null;default:'';uniqueIndex:idx_user_task_day" json:"claim_day"`
	Amount         int64     `gorm:"not null" json:"amount"`
	ClaimedAt      time.Time `json:"claimed_at" gorm:"autoCreateTime"`
}
