package questionnaire

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/entries"
	"github.com/julianstephens/wellday/internal/utils"
	"github.com/julianstephens/wellday/internal/validation"
)

type SubmitCmd struct {
	Goal        string `help:"Primary health goal."`
	Activity    int    `help:"Activity level (1-5)."`
	Diet        string `help:"Diet type (Balanced, Vegetarian, Vegan, Low-carb, Mediterranean, Other)."`
	Medications string `help:"Current medications."`
	Notes       string `help:"Additional notes."`
}

func (c *SubmitCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireLogin()
	if err != nil {
		return err
	}
	if a.Entries.Questionnaire().Completed {
		return entries.ErrQuestionnaireCompleted
	}

	form := validation.QuestionnaireForm{
		HealthGoal:      c.Goal,
		ActivityLevel:   c.Activity,
		Diet:            c.Diet,
		Medications:     c.Medications,
		AdditionalNotes: c.Notes,
	}
	if c.Goal == "" || c.Diet == "" || c.Activity == 0 {
		if !ctx.IsInteractive() {
			return errors.New("--goal, --activity and --diet are required when not running interactively")
		}
		if err := runForm(&form); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctx.Println("Questionnaire cancelled.")
				return nil
			}
			return fmt.Errorf("questionnaire form failed: %w", err)
		}
	}

	result := validation.New().ValidateQuestionnaire(form)
	if result.HasIssues() {
		ctx.Print(result.FormatReport())
		return fmt.Errorf("invalid questionnaire: %w", result.Err())
	}

	if err := a.Entries.SetQuestionnaire(validation.BuildQuestionnaireAnswers(form, a.NewID)); err != nil {
		return err
	}
	ctx.Println("✓ Questionnaire completed. Thank you!")
	return nil
}

func runForm(form *validation.QuestionnaireForm) error {
	if form.ActivityLevel == 0 {
		form.ActivityLevel = constants.DefaultActivityLevel
	}
	levels := make([]huh.Option[int], 0, constants.MaxActivityLevel)
	for i := constants.MinActivityLevel; i <= constants.MaxActivityLevel; i++ {
		levels = append(levels, huh.NewOption(strconv.Itoa(i), i))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(constants.QuestionHealthGoal).Value(&form.HealthGoal).
				Validate(func(s string) error {
					if len([]rune(s)) < constants.MinHealthGoalLen {
						return errors.New("please enter your primary health goal")
					}
					return nil
				}),
			huh.NewSelect[int]().Title(constants.QuestionActivityLevel).
				Options(levels...).Value(&form.ActivityLevel),
			huh.NewSelect[string]().Title(constants.QuestionDiet).
				Options(huh.NewOptions(constants.DietOptions...)...).Value(&form.Diet),
		),
		huh.NewGroup(
			huh.NewText().Title(constants.QuestionMedications).Description("Optional").Value(&form.Medications),
			huh.NewText().Title(constants.QuestionNotes).Description("Optional").Value(&form.AdditionalNotes),
		),
	).Run()
}

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireLogin()
	if err != nil {
		return err
	}
	q := a.Entries.Questionnaire()
	if !q.Completed {
		ctx.Println("Questionnaire not completed yet. Run 'wellday questionnaire submit'.")
		return nil
	}

	ctx.Printf("Completed on %s\n\n", utils.FormatDisplayDate(q.CompletedDate))
	for _, ans := range q.Answers {
		ctx.Printf("%s\n  %s\n", ans.Question, ans.Answer)
	}
	return nil
}
