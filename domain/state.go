package domain

// Snapshot is an immutable copy of the full application state, produced by
// the state store after every read or mutation. The API key itself is never
// included, only whether one is configured.
type Snapshot struct {
	Tasks            []Task        `json:"tasks"`
	Goals            []Goal        `json:"goals"`
	Suggestions      []Suggestion  `json:"suggestions"`
	Chat             []ChatMessage `json:"chat"`
	APIKeyConfigured bool          `json:"apiKeyConfigured"`
	DarkMode         bool          `json:"darkMode"`
	Loading          bool          `json:"loading"`
}

// DashboardStats are the derived counters shown on the dashboard.
type DashboardStats struct {
	PendingTasks   int `json:"pendingTasks"`
	CompletedTasks int `json:"completedTasks"`
	ActiveGoals    int `json:"activeGoals"`
}

// Dashboard derives the dashboard counters from the snapshot.
func (s Snapshot) Dashboard() DashboardStats {
	stats := DashboardStats{ActiveGoals: len(s.Goals)}
	for _, t := range s.Tasks {
		if t.Completed {
			stats.CompletedTasks++
		} else {
			stats.PendingTasks++
		}
	}
	return stats
}
