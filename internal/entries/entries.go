// Package entries stores the check-in history and the one-time health questionnaire.
package entries

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/julianstephens/wellday/internal/clock"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/persist"
	"github.com/julianstephens/wellday/internal/validation"
)

var (
	// ErrInvalidCheckIn is returned for out-of-range scores or a malformed date
	ErrInvalidCheckIn = errors.New("invalid check-in")
	// ErrQuestionnaireCompleted is returned when the questionnaire was already submitted
	ErrQuestionnaireCompleted = errors.New("questionnaire already completed")
	// ErrNoAnswers is returned when submitting an empty questionnaire
	ErrNoAnswers = errors.New("questionnaire has no answers")
	// ErrInvalidAnswer is returned for a number answer that is NaN or infinite
	ErrInvalidAnswer = errors.New("invalid questionnaire answer")
)

// CheckInPayload is the input to CreateCheckIn. An empty Date means today.
type CheckInPayload struct {
	Symptoms      float64
	Stress        float64
	SleepHours    float64
	Note          string
	TasksSnapshot []models.Task
	Date          string
}

// Store is the entries store
type Store struct {
	clock     clock.Clock
	newID     func() string
	validator *validation.Validator
	c         *persist.Container[models.EntriesState]
}

// Option customizes a Store
type Option func(*Store)

// WithIDGenerator replaces uuid generation, mostly for tests
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func New(backend kv.Backend, clk clock.Clock, opts ...Option) *Store {
	s := &Store{
		clock:     clk,
		newID:     uuid.NewString,
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.c = persist.NewContainer(backend, defaultState(), persist.Options[models.EntriesState]{
		Key:       constants.EntriesStorageKey,
		Version:   constants.SchemaVersion,
		Clone:     models.EntriesState.Clone,
		Normalize: normalize,
	})
	return s
}

// CreateCheckIn stores a check-in for the payload date, replacing any existing
// check-in on that date. History is kept newest first and capped at MaxCheckIns.
func (s *Store) CreateCheckIn(payload CheckInPayload) (models.CheckIn, error) {
	date := payload.Date
	if date == "" {
		date = s.clock.Today()
	}
	checkIn := models.CheckIn{
		Date:          date,
		Symptoms:      payload.Symptoms,
		Stress:        payload.Stress,
		SleepHours:    payload.SleepHours,
		Note:          payload.Note,
		TasksSnapshot: models.CloneTasks(payload.TasksSnapshot),
	}
	if result := s.validator.ValidateCheckIn(checkIn); result.HasIssues() {
		return models.CheckIn{}, fmt.Errorf("%w: %v", ErrInvalidCheckIn, result.Err())
	}
	checkIn.ID = s.newID()

	replaced := false
	_ = s.c.Update(func(st *models.EntriesState) (bool, error) {
		kept := make([]models.CheckIn, 0, len(st.CheckIns)+1)
		kept = append(kept, checkIn)
		for _, c := range st.CheckIns {
			if c.Date == date {
				replaced = true
				continue
			}
			kept = append(kept, c)
		}
		st.CheckIns = sortAndTrim(kept)
		return true, nil
	})

	logger.Info("Saved check-in", "date", date, "replaced", replaced)
	return checkIn.Clone(), nil
}

// SetQuestionnaire records the questionnaire answers and marks it completed today.
// It can succeed only once.
func (s *Store) SetQuestionnaire(answers []models.QuestionnaireAnswer) error {
	if len(answers) == 0 {
		return ErrNoAnswers
	}
	for _, a := range answers {
		if a.Answer.Kind() == models.AnswerNumber && !isFinite(a.Answer.Number()) {
			return fmt.Errorf("%w: %q is not a finite number", ErrInvalidAnswer, a.Question)
		}
	}
	stored := make([]models.QuestionnaireAnswer, len(answers))
	copy(stored, answers)
	today := s.clock.Today()

	err := s.c.Update(func(st *models.EntriesState) (bool, error) {
		if st.Questionnaire.Completed {
			return false, ErrQuestionnaireCompleted
		}
		st.Questionnaire = models.QuestionnaireData{
			Completed:     true,
			Answers:       stored,
			CompletedDate: today,
		}
		return true, nil
	})
	if err != nil {
		return err
	}
	logger.Info("Saved questionnaire", "answers", len(stored), "date", today)
	return nil
}

// State returns a copy of the entries state
func (s *Store) State() models.EntriesState {
	return s.c.Get()
}

// CheckIns returns the stored check-ins, newest first
func (s *Store) CheckIns() []models.CheckIn {
	return s.c.Get().CheckIns
}

func (s *Store) Questionnaire() models.QuestionnaireData {
	return s.c.Get().Questionnaire
}

// CheckInFor returns the check-in recorded on date, if any
func (s *Store) CheckInFor(date string) (models.CheckIn, bool) {
	for _, c := range s.CheckIns() {
		if c.Date == date {
			return c, true
		}
	}
	return models.CheckIn{}, false
}

// TodayCheckIn returns today's check-in, if any
func (s *Store) TodayCheckIn() (models.CheckIn, bool) {
	return s.CheckInFor(s.clock.Today())
}

func (s *Store) Subscribe(fn func(models.EntriesState)) func() {
	return s.c.Subscribe(fn)
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

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func defaultState() models.EntriesState {
	return models.EntriesState{
		CheckIns:      []models.CheckIn{},
		Questionnaire: models.QuestionnaireData{Answers: []models.QuestionnaireAnswer{}},
	}
}

// sortAndTrim orders check-ins newest first and drops the oldest beyond the limit.
// The sort is stable so earlier entries win ties.
func sortAndTrim(checkIns []models.CheckIn) []models.CheckIn {
	sort.SliceStable(checkIns, func(i, j int) bool {
		return checkIns[i].Date > checkIns[j].Date
	})
	if len(checkIns) > constants.MaxCheckIns {
		checkIns = checkIns[:constants.MaxCheckIns]
	}
	return checkIns
}

// normalize repairs hydrated state: one check-in per date (the first listed wins),
// newest first, at most MaxCheckIns, and questionnaire flags that agree with the answers.
func normalize(st models.EntriesState) models.EntriesState {
	seen := make(map[string]bool, len(st.CheckIns))
	kept := make([]models.CheckIn, 0, len(st.CheckIns))
	for _, c := range st.CheckIns {
		if seen[c.Date] {
			continue
		}
		seen[c.Date] = true
		kept = append(kept, c)
	}
	if len(kept) != len(st.CheckIns) {
		logger.Warn("Dropped duplicate check-ins from stored state", "count", len(st.CheckIns)-len(kept))
	}
	st.CheckIns = sortAndTrim(kept)

	q := &st.Questionnaire
	if q.Answers == nil {
		q.Answers = []models.QuestionnaireAnswer{}
	}
	q.Completed = len(q.Answers) > 0 && q.CompletedDate != ""
	if !q.Completed {
		q.CompletedDate = ""
	}
	return st
}
