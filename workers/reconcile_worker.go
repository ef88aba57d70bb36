package workers

import (
	"context"
	"log"
	"time"

	"reward-claim-system/models"

	"gorm.io/gorm"
)

// ReconcileClient cross-checks profile balances against the credit ledger.
type ReconcileClient struct {
	DB *gorm.DB
}

func NewReconcileClient(db *gorm.DB) *ReconcileClient {
	return &ReconcileClient{DB: db}
}

// Mismatch is one profile whose balance disagrees with its ledger total.
type Mismatch struct {
	ExternalUserID string
	Balance        int64
	LedgerTotal    int64
}

// CheckOnce verifies SUM(credit_entries.amount) == profiles.balance for every
// profile. A mismatch means the credit+mark transaction partially applied
// somewhere — that must never happen, so it is reported loudly for operator
// action (replaying the snapshot archive), never corrected silently.
func (c *ReconcileClient) CheckOnce(ctx context.Context) ([]Mismatch, error) {
	var rows []Mismatch
	err := c.DB.WithContext(ctx).
		Model(&models.Profile{}).
		Select("profiles.external_user_id, profiles.balance, COALESCE(SUM(credit_entries.amount), 0) AS ledger_total").
		Joins("LEFT JOIN credit_entries ON credit_entries.external_user_id = profiles.external_user_id").
		Group("profiles.external_user_id, profiles.balance").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for _, r := range rows {
		if r.Balance != r.LedgerTotal {
			mismatches = append(mismatches, r)
			log.Printf("❌ [RECONCILE] invariant violation: user=%s balance=%d ledger=%d",
				r.ExternalUserID, r.Balance, r.LedgerTotal)
		}
	}
	return mismatches, nil
}

// PollReconcile runs CheckOnce on an interval until ctx is cancelled.
func PollReconcile(ctx context.Context, client *ReconcileClient, pollInterval time.Duration) {
	log.Println("Starting ledger reconciliation polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Ledger reconciliation stopped.")
			return
		case <-ticker.C:
			mismatches, err := client.CheckOnce(ctx)
			if err != nil {
				log.Printf("❌ [RECONCILE] check failed: %v", err)
				continue
			}
			if len(mismatches) > 0 {
				log.Printf("❌ [RECONCILE] %d profile(s) out of sync with ledger", len(mismatches))
			}
		}
	}
}
