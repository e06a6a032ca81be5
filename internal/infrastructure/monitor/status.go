package monitor

import "time"

type Status struct {
	Store          bool      `json:"store"`
	PopulatedSlots int       `json:"populated_slots"`
	AssistantBusy  bool      `json:"assistant_busy"`
	LastCheck      time.Time `json:"last_check"`
}
