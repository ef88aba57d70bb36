// services/snapshot.go
package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"reward-claim-system/models"
	"reward-claim-system/utils"

	"github.com/go-co-op/gocron/v2"
)

// StartSnapshotScheduler periodically archives recent credit entries to
// object storage. The archive is the durable trail reconciliation replays if
// the ledger and balances ever disagree.
func (s *ClaimService) StartSnapshotScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: archive the last hour of credits
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			since := time.Now().Add(-1 * time.Hour)
			var entries []models.CreditEntry
			if err := s.DB.Where("created_at >= ?", since).
				Order("created_at ASC").
				Find(&entries).Error; err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			if len(entries) == 0 {
				return
			}

			payload, err := json.Marshal(entries)
			if err != nil {
				log.Printf("[Scheduler] Failed to marshal snapshot: %v", err)
				return
			}

			key := fmt.Sprintf("ledger-snapshots/%s.json", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
			if err := utils.UploadLedgerSnapshot(key, payload); err != nil {
				log.Printf("[Scheduler] Failed to upload snapshot %s: %v", key, err)
			} else {
				log.Printf("✅ Uploaded ledger snapshot: %s (%d entries)", key, len(entries))
			}
		}),
	)
}
