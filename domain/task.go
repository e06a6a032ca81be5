package domain

import "time"

// Task priority levels assigned by the enrichment flow.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task represents a single planner activity item. Insertion order is the
// display order and is preserved across persistence round trips.
type Task struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Completed         bool      `json:"completed"`
	CreatedAt         time.Time `json:"createdAt"`
	AIGenerated       bool      `json:"aiGenerated"`
	Priority          string    `json:"priority,omitempty"`
	EstimatedDuration int       `json:"estimatedDuration,omitempty"`
	Category          string    `json:"category,omitempty"`
}

// TaskDraft carries the fields a caller supplies when creating a task.
// ID, CreatedAt and Completed are assigned by the state store.
type TaskDraft struct {
	Title             string
	Description       string
	AIGenerated       bool
	Priority          string
	EstimatedDuration int
	Category          string
}
