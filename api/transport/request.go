package transport

// QuickAddRequest carries the free-text input of the task quick-add flow.
type QuickAddRequest struct {
	Description string `json:"description"`
}

// GoalRequest carries the fields of a new goal. TargetDate is an optional
// YYYY-MM-DD date string.
type GoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"targetDate"`
}

// ChatRequest carries one user chat message.
type ChatRequest struct {
	Message string `json:"message"`
}

// SettingsRequest is a partial settings update; nil fields are left unchanged.
type SettingsRequest struct {
	APIKey   *string `json:"apiKey"`
	DarkMode *bool   `json:"darkMode"`
}

// SettingsResponse reports the current settings. The key itself is never
// echoed back, only whether one is configured.
type SettingsResponse struct {
	APIKeyConfigured bool `json:"apiKeyConfigured"`
	DarkMode         bool `json:"darkMode"`
}
