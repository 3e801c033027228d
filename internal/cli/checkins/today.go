package checkins

import (
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/utils"
)

// TodayCmd is the dashboard: today's check-in, plan progress and questionnaire status
type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireLogin()
	if err != nil {
		return err
	}

	ctx.Printf("Welcome back, %s!\n", a.Session.Email())
	ctx.Printf("%s\n\n", utils.FormatDisplayDate(a.Clock.Today()))

	if _, ok := a.Entries.TodayCheckIn(); ok {
		ctx.Println("✓ Today's check-in   Completed")
	} else {
		ctx.Println("📝 Today's check-in  Pending, run 'wellday checkin'")
	}

	ctx.Printf("   Daily plan        %d%%\n", a.Plan.Progress())

	if a.Entries.Questionnaire().Completed {
		ctx.Println("✓ Questionnaire      Completed")
	} else {
		ctx.Println("📋 Questionnaire     Pending, run 'wellday questionnaire submit'")
	}
	return nil
}
