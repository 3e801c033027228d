package checkins

import (
	"fmt"
	"strings"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/cli/plans"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/utils"
)

type HistoryCmd struct {
	Date  string `arg:"" optional:"" help:"Show the full check-in for this date (YYYY-MM-DD)."`
	Limit int    `help:"Number of recent check-ins to list." default:"7"`
	All   bool   `help:"List every stored check-in."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireLogin()
	if err != nil {
		return err
	}

	if c.Date != "" {
		checkIn, ok := a.Entries.CheckInFor(c.Date)
		if !ok {
			return fmt.Errorf("no check-in found for %s", c.Date)
		}
		ctx.Print(RenderCheckIn(checkIn))
		return nil
	}

	checkIns := a.Entries.CheckIns()
	if len(checkIns) == 0 {
		ctx.Println("No check-ins yet. Start by completing your first daily check-in!")
		return nil
	}

	limit := c.Limit
	if limit <= 0 {
		limit = constants.HistoryPreviewLimit
	}
	if !c.All && len(checkIns) > limit {
		checkIns = checkIns[:limit]
	}

	ctx.Printf("%-14s %-10s %-10s %s\n", "Date", "Symptoms", "Stress", "Sleep")
	for _, ci := range checkIns {
		ctx.Printf("%-14s %-10s %-10s %sh\n",
			utils.FormatDisplayDate(ci.Date),
			formatNumber(ci.Symptoms)+"/10",
			formatNumber(ci.Stress)+"/10",
			formatNumber(ci.SleepHours),
		)
	}
	return nil
}

// RenderCheckIn shows one check-in in full, including the plan snapshot
func RenderCheckIn(ci models.CheckIn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", utils.FormatDisplayDate(ci.Date))
	fmt.Fprintf(&b, "  Symptoms  %s %s/10\n", scaleBar(ci.Symptoms, constants.MaxScore), formatNumber(ci.Symptoms))
	fmt.Fprintf(&b, "  Stress    %s %s/10\n", scaleBar(ci.Stress, constants.MaxScore), formatNumber(ci.Stress))
	fmt.Fprintf(&b, "  Sleep     %s %sh\n", scaleBar(ci.SleepHours, constants.MaxSleepHours), formatNumber(ci.SleepHours))
	if ci.Note != "" {
		fmt.Fprintf(&b, "\nNote:\n  %s\n", ci.Note)
	}
	if len(ci.TasksSnapshot) > 0 {
		b.WriteString("\nDaily plan:\n")
		b.WriteString(plans.RenderTasks(ci.TasksSnapshot))
	}
	return b.String()
}

func scaleBar(v, max float64) string {
	return plans.ProgressBar(int(v/max*100), 10)
}
