package domain

import "time"

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn in the assistant transcript. The transcript is
// append-only; messages are never edited or removed.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Suggestion is a single AI productivity suggestion. The suggestion list is
// ephemeral and replaced wholesale on each refresh.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
