// Package assistant implements the three AI flows: turning free text into a
// structured task, refreshing productivity suggestions, and the sidebar
// chat. Every flow degrades to something usable when the gateway falls back
// or the reply does not decode.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aiplanner/backend/domain"
	"github.com/aiplanner/backend/internal/infrastructure/aigateway"
	"github.com/aiplanner/backend/usecase/planner"
)

const suggestionsPrompt = "Provide 3 productivity suggestions based on my tasks and goals. Format as JSON array with 'title' and 'description' fields."

// Completer is the gateway surface the flows need.
type Completer interface {
	Complete(ctx context.Context, prompt, contextText string) (aigateway.Reply, error)
}

// UseCase wires the state store to the AI gateway.
type UseCase struct {
	store   *planner.Store
	gateway Completer
	logger  *zap.Logger
}

// New builds the assistant use case.
func New(store *planner.Store, gateway Completer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:   store,
		gateway: gateway,
		logger:  logger,
	}
}

// QuickAdd is the enrichment flow. Without a configured key the input
// becomes a plain task (title and description both equal the input). With a
// key, the gateway is asked for a structured JSON task; a fallback reply or
// a reply that does not decode silently degrades to the plain task.
func (uc *UseCase) QuickAdd(ctx context.Context, input string) (domain.Task, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.Task{}, domain.NewError(domain.ErrCodeInvalid, "task description is required")
	}

	if uc.store.APIKey() == "" {
		return uc.store.AddTask(plainDraft(input)), nil
	}

	prompt := fmt.Sprintf("Convert %q into a structured task. Return JSON with: title, description, priority (high/medium/low), estimatedDuration (minutes), category.", input)
	reply, err := uc.gateway.Complete(ctx, prompt, "")
	if err != nil {
		if errors.Is(err, domain.ErrAPIKeyMissing) {
			return uc.store.AddTask(plainDraft(input)), nil
		}
		return domain.Task{}, err
	}
	if reply.Fallback {
		return uc.store.AddTask(plainDraft(input)), nil
	}

	var decoded struct {
		Title             string `json:"title"`
		Description       string `json:"description"`
		Priority          string `json:"priority"`
		EstimatedDuration int    `json:"estimatedDuration"`
		Category          string `json:"category"`
	}
	if err := json.Unmarshal([]byte(reply.Text), &decoded); err != nil || strings.TrimSpace(decoded.Title) == "" {
		uc.logger.Debug("structured task decode failed, keeping plain task", zap.Error(err))
		return uc.store.AddTask(plainDraft(input)), nil
	}

	return uc.store.AddTask(domain.TaskDraft{
		Title:             decoded.Title,
		Description:       decoded.Description,
		AIGenerated:       true,
		Priority:          decoded.Priority,
		EstimatedDuration: decoded.EstimatedDuration,
		Category:          decoded.Category,
	}), nil
}

// RefreshSuggestions replaces the suggestion list wholesale. A reply that
// does not decode as a suggestion array is wrapped as a single generic
// suggestion so the user always sees something.
func (uc *UseCase) RefreshSuggestions(ctx context.Context) ([]domain.Suggestion, error) {
	tasksJSON, _ := json.Marshal(head(uc.store.Tasks(), 5))
	goalsJSON, _ := json.Marshal(head(uc.store.Goals(), 3))
	contextText := fmt.Sprintf("Current tasks: %s\nCurrent goals: %s", tasksJSON, goalsJSON)

	reply, err := uc.gateway.Complete(ctx, suggestionsPrompt, contextText)
	if err != nil {
		return nil, err
	}

	var list []domain.Suggestion
	if reply.Fallback {
		list = wrapSuggestion(reply.Text)
	} else if err := json.Unmarshal([]byte(reply.Text), &list); err != nil {
		uc.logger.Debug("suggestion decode failed, wrapping raw reply", zap.Error(err))
		list = wrapSuggestion(reply.Text)
	}

	uc.store.ReplaceSuggestions(list)
	return list, nil
}

// SendChat appends the user's message to the transcript first, then asks the
// gateway for a reply using the leading tasks and goals as context. A
// fallback reply is appended as if it were a genuine assistant turn; a
// rejected call (missing key, busy) leaves the user message in place and
// returns the error.
func (uc *UseCase) SendChat(ctx context.Context, message string) (domain.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.ChatMessage{}, domain.NewError(domain.ErrCodeInvalid, "message is required")
	}

	uc.store.AppendChat(domain.RoleUser, message)

	tasksJSON, _ := json.Marshal(head(uc.store.Tasks(), 3))
	goalsJSON, _ := json.Marshal(head(uc.store.Goals(), 2))
	contextText := fmt.Sprintf("Planner app context. Tasks: %s\nGoals: %s", tasksJSON, goalsJSON)

	reply, err := uc.gateway.Complete(ctx, message, contextText)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return uc.store.AppendChat(domain.RoleAssistant, reply.Text), nil
}

func plainDraft(input string) domain.TaskDraft {
	return domain.TaskDraft{Title: input, Description: input}
}

func wrapSuggestion(text string) []domain.Suggestion {
	return []domain.Suggestion{{Title: "AI Suggestion", Description: text}}
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
