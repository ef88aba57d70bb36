package models

// TaskKind distinguishes how often a task can be credited
type TaskKind string

const (
	TaskKindOneTime TaskKind = "one_time" // claimable once per user, ever
	TaskKindDaily   TaskKind = "daily"    // claimable once per user per calendar day
)

// Task is one catalog entry. The catalog is fixed configuration, not a table:
// tasks change with deployments, not at runtime.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Kind           TaskKind `json:"kind"`
	RewardAmount   int64    `json:"reward_amount"`
	ExternalAction string   `json:"external_action,omitempty"` // link opened by the client after a successful claim
}
