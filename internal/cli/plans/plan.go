package plans

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/plan"
	"github.com/julianstephens/wellday/internal/utils"
)

type PlanShowCmd struct{}

func (c *PlanShowCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireLogin()
	if err != nil {
		return err
	}
	st := a.Plan.State()
	ctx.Printf("Daily plan for %s\n\n", utils.FormatDisplayDate(st.LastResetDate))
	ctx.Print(RenderTasks(st.Tasks))
	return nil
}

type PlanToggleCmd struct {
	Task string `arg:"" help:"Task number (as listed by 'plan show') or task ID."`
}

func (c *PlanToggleCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireLogin()
	if err != nil {
		return err
	}

	tasks := a.Plan.Tasks()
	id, err := resolveTask(tasks, c.Task)
	if err != nil {
		return err
	}
	if !a.Plan.ToggleTask(id) {
		return fmt.Errorf("task not found: %s", c.Task)
	}

	for _, t := range a.Plan.Tasks() {
		if t.ID == id {
			state := "not done"
			if t.Done {
				state = "done"
			}
			ctx.Printf("✓ Marked %q %s (%d%% complete)\n", t.Title, state, a.Plan.Progress())
		}
	}
	return nil
}

type PlanResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *PlanResetCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireLogin()
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm("Reset today's plan? All tasks will be unchecked.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}
	a.Plan.ResetDailyPlan()
	ctx.Println("✓ Plan reset! Your daily plan has been reset.")
	return nil
}

// RenderTasks prints a numbered checklist with a progress summary
func RenderTasks(tasks []models.Task) string {
	var b strings.Builder
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	pct := plan.Progress(tasks)
	fmt.Fprintf(&b, "%d of %d completed  %s %d%%\n\n", done, len(tasks), ProgressBar(pct, 20), pct)
	for i, t := range tasks {
		mark := " "
		if t.Done {
			mark = "x"
		}
		fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, mark, t.Title)
	}
	return b.String()
}

// ProgressBar renders pct as a fixed-width bar of block characters
func ProgressBar(pct, width int) string {
	filled := pct * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// resolveTask accepts a 1-based position or a task ID
func resolveTask(tasks []models.Task, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(tasks) {
			return "", fmt.Errorf("task number must be between 1 and %d", len(tasks))
		}
		return tasks[n-1].ID, nil
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("task not found: %s", ref)
}
