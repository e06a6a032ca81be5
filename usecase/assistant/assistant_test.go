package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiplanner/backend/domain"
	"github.com/aiplanner/backend/internal/infrastructure/aigateway"
	"github.com/aiplanner/backend/usecase/planner"
)

// fakeGateway scripts the gateway's behavior and records prompts.
type fakeGateway struct {
	reply    aigateway.Reply
	err      error
	calls    int
	prompts  []string
	contexts []string
}

func (f *fakeGateway) Complete(_ context.Context, prompt, contextText string) (aigateway.Reply, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.contexts = append(f.contexts, contextText)
	if f.err != nil {
		return aigateway.Reply{}, f.err
	}
	return f.reply, nil
}

func newUseCase(t *testing.T, gw *fakeGateway, apiKey string) (*UseCase, *planner.Store) {
	t.Helper()
	store := planner.NewStore(nil, nil)
	store.SetAPIKey(apiKey)
	return New(store, gw, nil), store
}

func TestQuickAddWithoutKeyCreatesPlainTask(t *testing.T) {
	gw := &fakeGateway{}
	uc, _ := newUseCase(t, gw, "")

	task, err := uc.QuickAdd(context.Background(), "buy milk")
	require.NoError(t, err)

	assert.Equal(t, "buy milk", task.Title)
	assert.Equal(t, "buy milk", task.Description)
	assert.False(t, task.AIGenerated)
	assert.False(t, task.Completed)
	assert.Zero(t, gw.calls, "no gateway call without a key")
}

func TestQuickAddDecodesStructuredReply(t *testing.T) {
	gw := &fakeGateway{reply: aigateway.Reply{
		Text: `{"title":"Buy groceries","description":"Milk, eggs, bread","priority":"medium","estimatedDuration":30,"category":"errands"}`,
	}}
	uc, store := newUseCase(t, gw, "sk-test")

	task, err := uc.QuickAdd(context.Background(), "buy milk and stuff")
	require.NoError(t, err)

	assert.True(t, task.AIGenerated)
	assert.Equal(t, "Buy groceries", task.Title)
	assert.Equal(t, "Milk, eggs, bread", task.Description)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, 30, task.EstimatedDuration)
	assert.Equal(t, "errands", task.Category)

	require.Equal(t, 1, gw.calls)
	assert.Contains(t, gw.prompts[0], `"buy milk and stuff"`)
	assert.Empty(t, gw.contexts[0])
	require.Len(t, store.Tasks(), 1)
}

func TestQuickAddFallsBackOnUndecodableReply(t *testing.T) {
	for name, reply := range map[string]aigateway.Reply{
		"not json":      {Text: "Sure! Here's a task for you."},
		"missing title": {Text: `{"description":"x"}`},
		"fallback":      {Text: aigateway.FallbackText, Fallback: true},
	} {
		t.Run(name, func(t *testing.T) {
			gw := &fakeGateway{reply: reply}
			uc, _ := newUseCase(t, gw, "sk-test")

			task, err := uc.QuickAdd(context.Background(), "buy milk")
			require.NoError(t, err)

			assert.Equal(t, "buy milk", task.Title)
			assert.Equal(t, "buy milk", task.Description)
			assert.False(t, task.AIGenerated)
			assert.Empty(t, task.Priority)
		})
	}
}

func TestQuickAddRejectsEmptyInput(t *testing.T) {
	uc, store := newUseCase(t, &fakeGateway{}, "")

	_, err := uc.QuickAdd(context.Background(), "   ")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Empty(t, store.Tasks())
}

func TestQuickAddPropagatesBusy(t *testing.T) {
	gw := &fakeGateway{err: domain.ErrAssistantBusy}
	uc, store := newUseCase(t, gw, "sk-test")

	_, err := uc.QuickAdd(context.Background(), "buy milk")
	assert.ErrorIs(t, err, domain.ErrAssistantBusy)
	assert.Empty(t, store.Tasks())
}

func TestRefreshSuggestionsReplacesListOnDecode(t *testing.T) {
	gw := &fakeGateway{reply: aigateway.Reply{
		Text: `[{"title":"a","description":"1"},{"title":"b","description":"2"},{"title":"c","description":"3"}]`,
	}}
	uc, store := newUseCase(t, gw, "sk-test")
	store.ReplaceSuggestions([]domain.Suggestion{{Title: "stale"}})

	list, err := uc.RefreshSuggestions(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, list, store.Suggestions())
}

func TestRefreshSuggestionsWrapsUndecodableReply(t *testing.T) {
	gw := &fakeGateway{reply: aigateway.Reply{Text: "Try taking more breaks."}}
	uc, store := newUseCase(t, gw, "sk-test")

	list, err := uc.RefreshSuggestions(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "AI Suggestion", list[0].Title)
	assert.Equal(t, "Try taking more breaks.", list[0].Description)
	assert.Equal(t, list, store.Suggestions())
}

func TestRefreshSuggestionsContextUsesLeadingTasksAndGoals(t *testing.T) {
	gw := &fakeGateway{reply: aigateway.Reply{Text: "[]"}}
	uc, store := newUseCase(t, gw, "sk-test")
	for i := 0; i < 7; i++ {
		store.AddTask(domain.TaskDraft{Title: fmt.Sprintf("task-%d", i)})
	}
	store.AddGoal(domain.GoalDraft{Title: "goal-0"})

	_, err := uc.RefreshSuggestions(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, gw.calls)
	ctxText := gw.contexts[0]
	assert.True(t, strings.HasPrefix(ctxText, "Current tasks: "))
	assert.Contains(t, ctxText, "task-4")
	assert.NotContains(t, ctxText, "task-5", "only the first 5 tasks are sent")
	assert.Contains(t, ctxText, "goal-0")
}

func TestRefreshSuggestionsWithoutKey(t *testing.T) {
	gw := &fakeGateway{err: domain.ErrAPIKeyMissing}
	uc, store := newUseCase(t, gw, "")
	store.ReplaceSuggestions([]domain.Suggestion{{Title: "keep me"}})

	_, err := uc.RefreshSuggestions(context.Background())
	assert.ErrorIs(t, err, domain.ErrAPIKeyMissing)

	// the list is untouched on a rejected call
	require.Len(t, store.Suggestions(), 1)
	assert.Equal(t, "keep me", store.Suggestions()[0].Title)
}

func TestSendChatAppendsBothTurns(t *testing.T) {
	gw := &fakeGateway{reply: aigateway.Reply{Text: "You have 2 pending tasks."}}
	uc, store := newUseCase(t, gw, "sk-test")

	for i := 0; i < 3; i++ {
		_, err := uc.SendChat(context.Background(), fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	chat := store.Chat()
	require.Len(t, chat, 6)
	for i, msg := range chat {
		if i%2 == 0 {
			assert.Equal(t, domain.RoleUser, msg.Role)
		} else {
			assert.Equal(t, domain.RoleAssistant, msg.Role)
		}
	}
}

func TestSendChatAppendsFallbackAsAssistantTurn(t *testing.T) {
	gw := &fakeGateway{reply: aigateway.Reply{Text: aigateway.FallbackText, Fallback: true}}
	uc, store := newUseCase(t, gw, "sk-test")

	reply, err := uc.SendChat(context.Background(), "hello?")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAssistant, reply.Role)
	assert.Equal(t, aigateway.FallbackText, reply.Content)
	require.Len(t, store.Chat(), 2)
}

func TestSendChatWithoutKeyKeepsUserMessage(t *testing.T) {
	gw := &fakeGateway{err: domain.ErrAPIKeyMissing}
	uc, store := newUseCase(t, gw, "")

	_, err := uc.SendChat(context.Background(), "hello?")
	assert.ErrorIs(t, err, domain.ErrAPIKeyMissing)

	chat := store.Chat()
	require.Len(t, chat, 1)
	assert.Equal(t, domain.RoleUser, chat[0].Role)
	assert.Equal(t, "hello?", chat[0].Content)
}

func TestSendChatContextUsesLeadingTasksAndGoals(t *testing.T) {
	gw := &fakeGateway{reply: aigateway.Reply{Text: "ok"}}
	uc, store := newUseCase(t, gw, "sk-test")
	for i := 0; i < 4; i++ {
		store.AddTask(domain.TaskDraft{Title: fmt.Sprintf("task-%d", i)})
	}
	for i := 0; i < 3; i++ {
		store.AddGoal(domain.GoalDraft{Title: fmt.Sprintf("goal-%d", i)})
	}

	_, err := uc.SendChat(context.Background(), "how am I doing?")
	require.NoError(t, err)

	require.Equal(t, 1, gw.calls)
	assert.Equal(t, "how am I doing?", gw.prompts[0])
	ctxText := gw.contexts[0]
	assert.True(t, strings.HasPrefix(ctxText, "Planner app context. Tasks: "))
	assert.Contains(t, ctxText, "task-2")
	assert.NotContains(t, ctxText, "task-3", "only the first 3 tasks are sent")
	assert.Contains(t, ctxText, "goal-1")
	assert.NotContains(t, ctxText, "goal-2", "only the first 2 goals are sent")
}
