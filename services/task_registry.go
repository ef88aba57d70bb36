package services

import (
	"reward-claim-system/models"

	"github.com/gosimple/slug"
)

// TaskRegistry is the static, ordered task catalog. No state, no mutation:
// List and Get cannot fail.
type TaskRegistry struct {
	tasks []models.Task
	byID  map[string]models.Task
}

// NewTaskRegistry builds a registry from catalog entries, deriving stable ids
// from titles when none is set (e.g., "Daily Check-in" → "daily-check-in").
func NewTaskRegistry(tasks []models.Task) *TaskRegistry {
	ordered := make([]models.Task, len(tasks))
	copy(ordered, tasks)

	byID := make(map[string]models.Task, len(ordered))
	for i := range ordered {
		if ordered[i].ID == "" {
			ordered[i].ID = slug.Make(ordered[i].Title)
		}
		byID[ordered[i].ID] = ordered[i]
	}
	return &TaskRegistry{tasks: ordered, byID: byID}
}

// DefaultTasks is the production catalog.
func DefaultTasks() []models.Task {
	return []models.Task{
		{
			Title:          "Join Telegram Channel",
			Description:    "Join our official Telegram channel for updates",
			Kind:           models.TaskKindOneTime,
			RewardAmount:   5000,
			ExternalAction: "https://t.me/officialbluepay2025",
		},
		{
			Title:          "Join WhatsApp Group",
			Description:    "Join our WhatsApp community for instant updates",
			Kind:           models.TaskKindOneTime,
			RewardAmount:   5000,
			ExternalAction: "https://chat.whatsapp.com/EB6wii8cqxI25rENGOzI5d?mode=wwt",
		},
		{
			Title:        "Daily Check-in",
			Description:  "Come back every day and claim your reward!",
			Kind:         models.TaskKindDaily,
			RewardAmount: 15000,
		},
	}
}

// List returns the catalog in display order.
func (r *TaskRegistry) List() []models.Task {
	out := make([]models.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Get looks up a task by id.
func (r *TaskRegistry) Get(id string) (models.Task, bool) {
	t, ok := r.byID[id]
	return t, ok
}
