package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile holds the account fields this service owns: the reward balance and
// the daily check-in marker. Identity lives in the profile service; everything
// here is keyed by its user ID.
// The balance is only ever increased by this service, and only through
// LedgerService.Credit.
type Profile struct {
	ID               string     `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID   string     `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service
	Balance          int64      `gorm:"not null;default:0" json:"balance"`
	LastDailyCheckin *time.Time `json:"last_daily_checkin,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
