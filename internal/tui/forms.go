package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/entries"
	"github.com/julianstephens/wellday/internal/validation"
)

const historyLimit = constants.HistoryPreviewLimit

type checkInFields struct {
	Symptoms string
	Stress   string
	Sleep    string
	Note     string
}

type surveyFields struct {
	validation.QuestionnaireForm
}

func rangeValidator(lo, hi float64) func(string) error {
	return func(s string) error {
		_, err := validation.ParseInRange(s, lo, hi)
		return err
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// openCheckInForm prefills from today's check-in when there is one
func (m *Model) openCheckInForm() tea.Cmd {
	f := &checkInFields{Symptoms: "0", Stress: "0", Sleep: formatNumber(constants.DefaultSleepHours)}
	if existing, ok := m.app.Entries.TodayCheckIn(); ok {
		f.Symptoms = formatNumber(existing.Symptoms)
		f.Stress = formatNumber(existing.Stress)
		f.Sleep = formatNumber(existing.SleepHours)
		f.Note = existing.Note
	}
	m.checkInFields = f
	m.formKind = formCheckIn
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Symptoms (0-10)").Value(&f.Symptoms).
			Validate(rangeValidator(constants.MinScore, constants.MaxScore)),
		huh.NewInput().Title("Stress (0-10)").Value(&f.Stress).
			Validate(rangeValidator(constants.MinScore, constants.MaxScore)),
		huh.NewInput().Title("Sleep hours (0-12)").Value(&f.Sleep).
			Validate(rangeValidator(constants.MinSleepHours, constants.MaxSleepHours)),
		huh.NewText().Title("Note").Description("Optional").Value(&f.Note),
	))
	m.mode = ModeForm
	return m.form.Init()
}

// submitCheckIn saves today's check-in with a snapshot of the plan
func (m *Model) submitCheckIn(f checkInFields) error {
	symptoms, err := validation.ParseInRange(f.Symptoms, constants.MinScore, constants.MaxScore)
	if err != nil {
		return fmt.Errorf("symptoms: %w", err)
	}
	stress, err := validation.ParseInRange(f.Stress, constants.MinScore, constants.MaxScore)
	if err != nil {
		return fmt.Errorf("stress: %w", err)
	}
	sleep, err := validation.ParseInRange(f.Sleep, constants.MinSleepHours, constants.MaxSleepHours)
	if err != nil {
		return fmt.Errorf("sleep hours: %w", err)
	}

	_, hadExisting := m.app.Entries.TodayCheckIn()
	_, err = m.app.Entries.CreateCheckIn(entries.CheckInPayload{
		Symptoms:      symptoms,
		Stress:        stress,
		SleepHours:    sleep,
		Note:          strings.TrimSpace(f.Note),
		TasksSnapshot: m.app.Plan.Snapshot(),
	})
	if err != nil {
		return err
	}
	if hadExisting {
		m.status = "✓ Check-in updated"
	} else {
		m.status = "✓ Check-in saved! Your daily check-in has been recorded."
	}
	return nil
}

func (m *Model) openQuestionnaireForm() tea.Cmd {
	f := &surveyFields{}
	f.ActivityLevel = constants.DefaultActivityLevel
	f.Diet = constants.DietOptions[0]
	m.surveyFields = f
	m.formKind = formQuestionnaire

	levels := make([]huh.Option[int], 0, constants.MaxActivityLevel)
	for i := constants.MinActivityLevel; i <= constants.MaxActivityLevel; i++ {
		levels = append(levels, huh.NewOption(strconv.Itoa(i), i))
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(constants.QuestionHealthGoal).Value(&f.HealthGoal).
				Validate(func(s string) error {
					if len([]rune(strings.TrimSpace(s))) < constants.MinHealthGoalLen {
						return errors.New("please enter your primary health goal")
					}
					return nil
				}),
			huh.NewSelect[int]().Title(constants.QuestionActivityLevel).Options(levels...).Value(&f.ActivityLevel),
			huh.NewSelect[string]().Title(constants.QuestionDiet).
				Options(huh.NewOptions(constants.DietOptions...)...).Value(&f.Diet),
		),
		huh.NewGroup(
			huh.NewText().Title(constants.QuestionMedications).Description("Optional").Value(&f.Medications),
			huh.NewText().Title(constants.QuestionNotes).Description("Optional").Value(&f.AdditionalNotes),
		),
	)
	m.mode = ModeForm
	return m.form.Init()
}

func (m *Model) submitQuestionnaire(form validation.QuestionnaireForm) error {
	result := validation.New().ValidateQuestionnaire(form)
	if err := result.Err(); err != nil {
		return err
	}
	if err := m.app.Entries.SetQuestionnaire(validation.BuildQuestionnaireAnswers(form, m.app.NewID)); err != nil {
		return err
	}
	m.status = "✓ Questionnaire completed. Thank you!"
	return nil
}
