package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/aiplanner/backend/api/handler"
)

type Handlers struct {
	Task      *apiHandler.TaskHandler
	Goal      *apiHandler.GoalHandler
	Assistant *apiHandler.AssistantHandler
	Settings  *apiHandler.SettingsHandler
	State     *apiHandler.StateHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// State reads (view renderer surface)
	r.GET("/api/v1/state", handlers.State.GetState)
	r.GET("/api/v1/dashboard", handlers.State.GetDashboard)

	// Tasks
	r.GET("/api/v1/tasks", handlers.Task.GetTasks)
	r.POST("/api/v1/tasks", handlers.Task.QuickAdd)
	r.POST("/api/v1/tasks/{id}/toggle", handlers.Task.ToggleTask)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)

	// Goals
	r.GET("/api/v1/goals", handlers.Goal.GetGoals)
	r.POST("/api/v1/goals", handlers.Goal.CreateGoal)

	// Assistant
	r.GET("/api/v1/suggestions", handlers.Assistant.GetSuggestions)
	r.POST("/api/v1/suggestions/refresh", handlers.Assistant.RefreshSuggestions)
	r.GET("/api/v1/chat", handlers.Assistant.GetChat)
	r.POST("/api/v1/chat/messages", handlers.Assistant.SendChat)

	// Settings
	r.GET("/api/v1/settings", handlers.Settings.GetSettings)
	r.PUT("/api/v1/settings", handlers.Settings.UpdateSettings)

	return r
}
