// Package planner owns the in-memory application state: the authoritative
// task and goal collections plus the user-level settings. Every mutation
// goes through a named operation here, and each operation mirrors the slots
// it changed to the local slot store.
package planner

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aiplanner/backend/domain"
	"github.com/aiplanner/backend/repository"
)

// Store is the single source of truth for application state. All reads
// return copies; the internal slices are never shared with callers.
type Store struct {
	slots  repository.SlotStore
	logger *zap.Logger

	mu          sync.Mutex
	tasks       []domain.Task
	goals       []domain.Goal
	suggestions []domain.Suggestion
	chat        []domain.ChatMessage
	apiKey      string
	darkMode    bool
	lastID      int64
}

// NewStore builds an empty state store. A nil slot store disables mirroring,
// which the tests use.
func NewStore(slots repository.SlotStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		slots:       slots,
		logger:      logger,
		tasks:       []domain.Task{},
		goals:       []domain.Goal{},
		suggestions: []domain.Suggestion{},
		chat:        []domain.ChatMessage{},
	}
}

// Hydrate loads every slot once. Absent or unreadable slots leave the
// corresponding default untouched; hydration never fails the boot.
func (s *Store) Hydrate() {
	if s.slots == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, found := s.load(repository.SlotTasks); found {
		var tasks []domain.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			s.logger.Warn("discarding unreadable tasks slot", zap.Error(err))
		} else if tasks != nil {
			s.tasks = tasks
		}
	}
	if raw, found := s.load(repository.SlotGoals); found {
		var goals []domain.Goal
		if err := json.Unmarshal(raw, &goals); err != nil {
			s.logger.Warn("discarding unreadable goals slot", zap.Error(err))
		} else if goals != nil {
			s.goals = goals
		}
	}
	if raw, found := s.load(repository.SlotAPIKey); found {
		s.apiKey = string(raw)
	}
	if raw, found := s.load(repository.SlotDarkMode); found {
		if dark, err := strconv.ParseBool(string(raw)); err == nil {
			s.darkMode = dark
		}
	}

	// keep new ids ahead of everything we just loaded
	for _, t := range s.tasks {
		s.bumpLastID(t.ID)
	}
	for _, g := range s.goals {
		s.bumpLastID(g.ID)
	}
}

// AddTask appends a task to the collection. The mutator itself cannot fail;
// input filtering is the calling flow's job.
func (s *Store) AddTask(draft domain.TaskDraft) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := domain.Task{
		ID:                s.nextID(),
		Title:             draft.Title,
		Description:       draft.Description,
		CreatedAt:         time.Now().UTC(),
		AIGenerated:       draft.AIGenerated,
		Priority:          draft.Priority,
		EstimatedDuration: draft.EstimatedDuration,
		Category:          draft.Category,
	}
	s.tasks = append(s.tasks, task)
	s.mirror(repository.SlotTasks)
	return task
}

// ToggleTask flips the completed flag of the task with the given id.
func (s *Store) ToggleTask(id string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.mirror(repository.SlotTasks)
			return s.tasks[i], nil
		}
	}
	return domain.Task{}, domain.ErrTaskNotFound
}

// DeleteTask removes exactly one task by id, preserving the order of the rest.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.mirror(repository.SlotTasks)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

// AddGoal appends a goal with zero progress. Goals have no delete or edit
// path; the asymmetry with tasks is intentional.
func (s *Store) AddGoal(draft domain.GoalDraft) domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal := domain.Goal{
		ID:          s.nextID(),
		Title:       draft.Title,
		Description: draft.Description,
		TargetDate:  draft.TargetDate,
		Progress:    0,
		CreatedAt:   time.Now().UTC(),
	}
	s.goals = append(s.goals, goal)
	s.mirror(repository.SlotGoals)
	return goal
}

// ReplaceSuggestions swaps the suggestion list wholesale. Suggestions are
// ephemeral and never persisted.
func (s *Store) ReplaceSuggestions(list []domain.Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = append([]domain.Suggestion{}, list...)
}

// AppendChat adds one turn to the transcript and returns it.
func (s *Store) AppendChat(role, content string) domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.ChatMessage{Role: role, Content: content, Timestamp: time.Now().UTC()}
	s.chat = append(s.chat, msg)
	return msg
}

// SetAPIKey updates the key. The persisted copy is only written for
// non-empty keys; clearing the key affects the in-memory state alone.
func (s *Store) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
	if key != "" {
		s.mirror(repository.SlotAPIKey)
	}
}

// APIKey returns the configured key, or "" when none is set.
func (s *Store) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

// SetDarkMode updates the theme flag.
func (s *Store) SetDarkMode(dark bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = dark
	s.mirror(repository.SlotDarkMode)
}

// DarkMode returns the theme flag.
func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// Tasks returns a copy of the task collection in display order.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Task{}, s.tasks...)
}

// Goals returns a copy of the goal collection in display order.
func (s *Store) Goals() []domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Goal{}, s.goals...)
}

// Suggestions returns a copy of the current suggestion list.
func (s *Store) Suggestions() []domain.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Suggestion{}, s.suggestions...)
}

// Chat returns a copy of the transcript.
func (s *Store) Chat() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatMessage{}, s.chat...)
}

// Snapshot assembles an immutable copy of the full state. The loading flag
// belongs to the gateway and is filled in by the caller.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		Tasks:            append([]domain.Task{}, s.tasks...),
		Goals:            append([]domain.Goal{}, s.goals...),
		Suggestions:      append([]domain.Suggestion{}, s.suggestions...),
		Chat:             append([]domain.ChatMessage{}, s.chat...),
		APIKeyConfigured: s.apiKey != "",
		DarkMode:         s.darkMode,
	}
}

// MirrorAll re-saves every slot. The checkpoint service calls this on an
// interval; the semantics stay best-effort.
func (s *Store) MirrorAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror(repository.SlotTasks, repository.SlotGoals, repository.SlotDarkMode)
	if s.apiKey != "" {
		s.mirror(repository.SlotAPIKey)
	}
}

// mirror writes the current value of the given slots. Failures are logged
// and swallowed: persistence is a fire-and-forget cache, not a durability
// guarantee. Callers must hold s.mu.
func (s *Store) mirror(slots ...repository.Slot) {
	if s.slots == nil {
		return
	}
	for _, slot := range slots {
		value, err := s.serialize(slot)
		if err != nil {
			s.logger.Error("serialize slot", zap.String("slot", string(slot)), zap.Error(err))
			continue
		}
		if err := s.slots.Save(slot, value); err != nil {
			s.logger.Error("save slot", zap.String("slot", string(slot)), zap.Error(err))
		}
	}
}

func (s *Store) serialize(slot repository.Slot) ([]byte, error) {
	switch slot {
	case repository.SlotTasks:
		return json.Marshal(s.tasks)
	case repository.SlotGoals:
		return json.Marshal(s.goals)
	case repository.SlotAPIKey:
		return []byte(s.apiKey), nil
	case repository.SlotDarkMode:
		return []byte(strconv.FormatBool(s.darkMode)), nil
	default:
		return nil, domain.ErrInvalidPayload
	}
}

func (s *Store) load(slot repository.Slot) ([]byte, bool) {
	raw, found, err := s.slots.Load(slot)
	if err != nil {
		s.logger.Warn("load slot", zap.String("slot", string(slot)), zap.Error(err))
		return nil, false
	}
	return raw, found
}

// nextID returns a unique time-derived identifier. Two mutations within the
// same millisecond still get distinct ids.
func (s *Store) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Store) bumpLastID(id string) {
	if parsed, err := strconv.ParseInt(id, 10, 64); err == nil && parsed > s.lastID {
		s.lastID = parsed
	}
}
