package domain

import "time"

// Goal represents a long-running objective with a progress percentage.
// Goals are read-mostly: there is no delete or edit path and progress stays
// at its creation value.
type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TargetDate  string    `json:"targetDate,omitempty"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GoalDraft carries the caller-supplied fields for a new goal.
type GoalDraft struct {
	Title       string
	Description string
	TargetDate  string
}
