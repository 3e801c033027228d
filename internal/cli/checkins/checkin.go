package checkins

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/entries"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/utils"
	"github.com/julianstephens/wellday/internal/validation"
)

type CheckinCmd struct {
	Symptoms *float64 `help:"Symptom severity (0-10)."`
	Stress   *float64 `help:"Stress level (0-10)."`
	Sleep    *float64 `help:"Hours slept (0-12)."`
	Note     string   `help:"Optional note."`
	Date     string   `help:"Date of the check-in (YYYY-MM-DD). Defaults to today."`
	Yes      bool     `short:"y" help:"Replace an existing check-in for the date without asking."`
}

func (c *CheckinCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireLogin()
	if err != nil {
		return err
	}

	today := a.Clock.Today()
	date := c.Date
	if date == "" {
		date = today
	}
	if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	existing, hasExisting := a.Entries.CheckInFor(date)

	payload := entries.CheckInPayload{Date: date, Note: c.Note}
	if c.Symptoms != nil && c.Stress != nil && c.Sleep != nil {
		payload.Symptoms, payload.Stress, payload.SleepHours = *c.Symptoms, *c.Stress, *c.Sleep
		if hasExisting && !c.Yes {
			ok, err := ctx.Confirm(fmt.Sprintf("A check-in for %s already exists. Replace it?", utils.FormatDisplayDate(date)))
			if err != nil {
				return err
			}
			if !ok {
				ctx.Println("Check-in unchanged.")
				return nil
			}
		}
	} else {
		if !ctx.IsInteractive() {
			return errors.New("--symptoms, --stress and --sleep are required when not running interactively")
		}
		form := newCheckInForm(c, existing, hasExisting)
		if err := form.run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctx.Println("Check-in cancelled.")
				return nil
			}
			return fmt.Errorf("check-in form failed: %w", err)
		}
		payload.Symptoms, payload.Stress, payload.SleepHours, payload.Note = form.values()
	}

	// The plan only describes today, so older check-ins carry no snapshot
	if date == today {
		payload.TasksSnapshot = a.Plan.Snapshot()
	}

	saved, err := a.Entries.CreateCheckIn(payload)
	if err != nil {
		return err
	}
	verb := "saved"
	if hasExisting {
		verb = "updated"
	}
	ctx.Printf("✓ Check-in %s for %s\n", verb, utils.FormatDisplayDate(saved.Date))
	return nil
}

type checkInForm struct {
	symptoms, stress, sleep, note string
	form                          *huh.Form
}

// newCheckInForm prefills from the existing check-in, then from flags
func newCheckInForm(c *CheckinCmd, existing models.CheckIn, hasExisting bool) *checkInForm {
	symptoms, stress, sleep, note := 0.0, 0.0, float64(constants.DefaultSleepHours), c.Note
	if hasExisting {
		symptoms, stress, sleep = existing.Symptoms, existing.Stress, existing.SleepHours
		if note == "" {
			note = existing.Note
		}
	}
	if c.Symptoms != nil {
		symptoms = *c.Symptoms
	}
	if c.Stress != nil {
		stress = *c.Stress
	}
	if c.Sleep != nil {
		sleep = *c.Sleep
	}

	f := &checkInForm{
		symptoms: formatNumber(symptoms),
		stress:   formatNumber(stress),
		sleep:    formatNumber(sleep),
		note:     note,
	}
	f.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Symptoms (0-10)").Value(&f.symptoms).
			Validate(rangeValidator(constants.MinScore, constants.MaxScore)),
		huh.NewInput().Title("Stress (0-10)").Value(&f.stress).
			Validate(rangeValidator(constants.MinScore, constants.MaxScore)),
		huh.NewInput().Title("Sleep hours (0-12)").Value(&f.sleep).
			Validate(rangeValidator(constants.MinSleepHours, constants.MaxSleepHours)),
		huh.NewText().Title("Note").Description("Optional").Value(&f.note),
	))
	return f
}

func (f *checkInForm) run() error {
	return f.form.Run()
}

// values is only called after the form validated every field
func (f *checkInForm) values() (symptoms, stress, sleep float64, note string) {
	symptoms, _ = validation.ParseInRange(f.symptoms, constants.MinScore, constants.MaxScore)
	stress, _ = validation.ParseInRange(f.stress, constants.MinScore, constants.MaxScore)
	sleep, _ = validation.ParseInRange(f.sleep, constants.MinSleepHours, constants.MaxSleepHours)
	return symptoms, stress, sleep, strings.TrimSpace(f.note)
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
