// Package plan manages the daily task checklist and its once-per-day reset.
package plan

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/julianstephens/wellday/internal/clock"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/observe"
	"github.com/julianstephens/wellday/internal/persist"
)

// Store is the plan store
type Store struct {
	clock  clock.Clock
	newID  func() string
	titles []string
	c      *persist.Container[models.PlanState]
}

// Option customizes a Store
type Option func(*Store)

// WithIDGenerator replaces uuid generation, mostly for tests
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithTitles replaces the default task template
func WithTitles(titles []string) Option {
	return func(s *Store) { s.titles = append([]string(nil), titles...) }
}

// New returns a store holding a fresh plan for today until Hydrate runs
func New(backend kv.Backend, clk clock.Clock, opts ...Option) *Store {
	s := &Store{
		clock:  clk,
		newID:  uuid.NewString,
		titles: constants.DefaultTaskTitles,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.c = persist.NewContainer(backend, s.freshPlan(), persist.Options[models.PlanState]{
		Key:       constants.PlanStorageKey,
		Version:   constants.SchemaVersion,
		Clone:     models.PlanState.Clone,
		Normalize: normalize,
	})
	return s
}

// ToggleTask flips the done flag of the task with id. Unknown ids are ignored;
// the return value reports whether a task matched.
func (s *Store) ToggleTask(id string) bool {
	found := false
	_ = s.c.Update(func(st *models.PlanState) (bool, error) {
		for i := range st.Tasks {
			if st.Tasks[i].ID == id {
				st.Tasks[i].Done = !st.Tasks[i].Done
				found = true
				return true, nil
			}
		}
		return false, nil
	})
	if !found {
		logger.Debug("Toggle ignored, no such task", "id", id)
	}
	return found
}

// ResetDailyPlan replaces the tasks with a fresh copy of the template dated today
func (s *Store) ResetDailyPlan() {
	plan := s.freshPlan()
	_ = s.c.Update(func(st *models.PlanState) (bool, error) {
		*st = plan
		return true, nil
	})
	logger.Info("Reset daily plan", "date", plan.LastResetDate)
}

// CheckAndResetIfNewDay resets the plan when it was last reset on another day.
// It reports whether a reset happened.
func (s *Store) CheckAndResetIfNewDay() bool {
	today := s.clock.Today()
	reset := false
	_ = s.c.Update(func(st *models.PlanState) (bool, error) {
		if st.LastResetDate == today {
			return false, nil
		}
		*st = s.freshPlan()
		st.LastResetDate = today
		reset = true
		return true, nil
	})
	if reset {
		logger.Info("New day, plan reset", "date", today)
	}
	return reset
}

// State returns a copy of the plan state
func (s *Store) State() models.PlanState {
	return s.c.Get()
}

// Tasks returns a copy of the current tasks
func (s *Store) Tasks() []models.Task {
	return s.c.Get().Tasks
}

// Snapshot returns an independent copy of the tasks to attach to a check-in
func (s *Store) Snapshot() []models.Task {
	return s.Tasks()
}

// Progress returns the completion percentage of the current tasks
func (s *Store) Progress() int {
	return Progress(s.Tasks())
}

func (s *Store) Subscribe(fn func(models.PlanState)) func() {
	return s.c.Subscribe(fn)
}

// SubscribeProgress notifies fn only when the completion percentage changes
func (s *Store) SubscribeProgress(fn func(int)) func() {
	return observe.SubscribeSelected(s.c.Subject(),
		func(st models.PlanState) int { return Progress(st.Tasks) },
		func(a, b int) bool { return a == b },
		fn,
	)
}

func (s *Store) Hydrate(ctx context.Context) error {
	return s.c.Hydrate(ctx)
}

func (s *Store) Hydrated() bool {
	return s.c.Hydrated()
}

func (s *Store) Flush(ctx context.Context) error {
	return s.c.Flush(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.c.Close(ctx)
}

func (s *Store) Status() persist.Status {
	return s.c.Status()
}

func (s *Store) freshPlan() models.PlanState {
	tasks := make([]models.Task, len(s.titles))
	for i, title := range s.titles {
		tasks[i] = models.Task{ID: s.newID(), Title: title}
	}
	return models.PlanState{Tasks: tasks, LastResetDate: s.clock.Today()}
}

// Progress returns round(100 * done / total), or 0 for an empty list
func Progress(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

func normalize(st models.PlanState) models.PlanState {
	if st.Tasks == nil {
		st.Tasks = []models.Task{}
	}
	return st
}
