package models

import "time"

// CreditEntry is the append-only audit trail of balance credits. BalanceAfter
// is captured inside the same transaction as the credit, so
// SUM(amount) == profiles.balance must hold at all times — the reconcile
// worker checks exactly that, and the snapshot scheduler archives these rows.
type CreditEntry struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	TaskID         string    `gorm:"not null" json:"task_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	BalanceAfter   int64     `gorm:"not null" json:"balance_after"`
	ClaimDay       string    `json:"claim_day,omitempty"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
