package planner

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiplanner/backend/domain"
	"github.com/aiplanner/backend/internal/infrastructure/slotstore"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(nil, nil)
}

// newPersistentStore opens the bolt file behind a fresh state store. The
// returned closer must run before the same file is opened again; bolt holds
// an exclusive lock.
func newPersistentStore(t *testing.T, path string) (*Store, func()) {
	t.Helper()
	slots, err := slotstore.Open(path)
	require.NoError(t, err)
	return NewStore(slots, nil), func() { _ = slots.Close() }
}

func TestAddTaskAssignsFieldsAndOrder(t *testing.T) {
	store := newMemoryStore(t)

	first := store.AddTask(domain.TaskDraft{Title: "buy milk", Description: "buy milk"})
	second := store.AddTask(domain.TaskDraft{Title: "walk dog", Description: "walk dog"})

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.Completed)
	assert.False(t, first.AIGenerated)
	assert.False(t, first.CreatedAt.IsZero())

	tasks := store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "buy milk", tasks[0].Title)
	assert.Equal(t, "walk dog", tasks[1].Title)
}

func TestToggleTaskTwiceRestoresOriginal(t *testing.T) {
	store := newMemoryStore(t)
	task := store.AddTask(domain.TaskDraft{Title: "buy milk", Description: "buy milk"})

	toggled, err := store.ToggleTask(task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = store.ToggleTask(task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestToggleUnknownTask(t *testing.T) {
	store := newMemoryStore(t)

	_, err := store.ToggleTask("missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTaskRemovesExactlyOne(t *testing.T) {
	store := newMemoryStore(t)
	a := store.AddTask(domain.TaskDraft{Title: "a"})
	b := store.AddTask(domain.TaskDraft{Title: "b"})
	c := store.AddTask(domain.TaskDraft{Title: "c"})

	require.NoError(t, store.DeleteTask(b.ID))

	tasks := store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, a.ID, tasks[0].ID)
	assert.Equal(t, c.ID, tasks[1].ID)

	assert.ErrorIs(t, store.DeleteTask(b.ID), domain.ErrTaskNotFound)
}

func TestAddGoalDefaults(t *testing.T) {
	store := newMemoryStore(t)

	goal := store.AddGoal(domain.GoalDraft{Title: "run a marathon", TargetDate: "2026-12-31"})

	assert.NotEmpty(t, goal.ID)
	assert.Zero(t, goal.Progress)
	assert.Equal(t, "2026-12-31", goal.TargetDate)
	assert.False(t, goal.CreatedAt.IsZero())
	require.Len(t, store.Goals(), 1)
}

func TestReplaceSuggestionsIsWholesale(t *testing.T) {
	store := newMemoryStore(t)

	store.ReplaceSuggestions([]domain.Suggestion{{Title: "a"}, {Title: "b"}})
	store.ReplaceSuggestions([]domain.Suggestion{{Title: "c"}})

	suggestions := store.Suggestions()
	require.Len(t, suggestions, 1)
	assert.Equal(t, "c", suggestions[0].Title)
}

func TestAppendChatKeepsOrder(t *testing.T) {
	store := newMemoryStore(t)

	store.AppendChat(domain.RoleUser, "hello")
	store.AppendChat(domain.RoleAssistant, "hi")

	chat := store.Chat()
	require.Len(t, chat, 2)
	assert.Equal(t, domain.RoleUser, chat[0].Role)
	assert.Equal(t, domain.RoleAssistant, chat[1].Role)
}

func TestSnapshotReflectsState(t *testing.T) {
	store := newMemoryStore(t)
	store.AddTask(domain.TaskDraft{Title: "pending"})
	done := store.AddTask(domain.TaskDraft{Title: "done"})
	_, err := store.ToggleTask(done.ID)
	require.NoError(t, err)
	store.AddGoal(domain.GoalDraft{Title: "goal"})
	store.SetDarkMode(true)

	snap := store.Snapshot()
	assert.Len(t, snap.Tasks, 2)
	assert.Len(t, snap.Goals, 1)
	assert.True(t, snap.DarkMode)
	assert.False(t, snap.APIKeyConfigured)

	stats := snap.Dashboard()
	assert.Equal(t, 1, stats.PendingTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 1, stats.ActiveGoals)
}

func TestHydrateReproducesExactState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")

	store, closeStore := newPersistentStore(t, path)
	a := store.AddTask(domain.TaskDraft{Title: "buy milk", Description: "buy milk"})
	b := store.AddTask(domain.TaskDraft{
		Title:             "write report",
		Description:       "quarterly numbers",
		AIGenerated:       true,
		Priority:          domain.PriorityHigh,
		EstimatedDuration: 45,
		Category:          "work",
	})
	_, err := store.ToggleTask(a.ID)
	require.NoError(t, err)
	goal := store.AddGoal(domain.GoalDraft{Title: "run a marathon", TargetDate: "2026-12-31"})
	store.SetAPIKey("sk-test")
	store.SetDarkMode(true)

	beforeJSON, err := json.Marshal(store.Tasks())
	require.NoError(t, err)
	closeStore()

	reloaded, closeReloaded := newPersistentStore(t, path)
	defer closeReloaded()
	reloaded.Hydrate()

	afterJSON, err := json.Marshal(reloaded.Tasks())
	require.NoError(t, err)
	assert.JSONEq(t, string(beforeJSON), string(afterJSON))
	goals := reloaded.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, goal.ID, goals[0].ID)
	assert.Equal(t, "sk-test", reloaded.APIKey())
	assert.True(t, reloaded.DarkMode())

	// ids keep advancing past everything that was loaded
	next := reloaded.AddTask(domain.TaskDraft{Title: "new"})
	assert.NotEqual(t, a.ID, next.ID)
	assert.NotEqual(t, b.ID, next.ID)
}

func TestEmptyAPIKeyIsNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")

	store, closeStore := newPersistentStore(t, path)
	store.SetAPIKey("sk-test")
	store.SetAPIKey("")
	closeStore()

	reloaded, closeReloaded := newPersistentStore(t, path)
	defer closeReloaded()
	reloaded.Hydrate()

	// clearing the key only affects memory; the mirror keeps the last
	// non-empty value
	assert.Equal(t, "sk-test", reloaded.APIKey())
	assert.Empty(t, store.APIKey())
}

func TestHydrateToleratesCorruptSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")

	slots, err := slotstore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = slots.Close() })
	require.NoError(t, slots.Save("plannerTasks", []byte("not json")))

	store := NewStore(slots, nil)
	store.Hydrate()

	assert.Empty(t, store.Tasks())
}
