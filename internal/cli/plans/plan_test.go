package plans

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/cli/clitest"
	"github.com/julianstephens/wellday/internal/models"
)

func TestPlanCommandsRequireLogin(t *testing.T) {
	env := clitest.New(t, "2024-03-10")

	cmds := []interface{ Run(*cli.Context) error }{
		&PlanShowCmd{},
		&PlanToggleCmd{Task: "1"},
		&PlanResetCmd{Yes: true},
	}
	for _, cmd := range cmds {
		if err := cmd.Run(env.Ctx); !errors.Is(err, cli.ErrNotSignedIn) {
			t.Errorf("%T.Run() error = %v, want ErrNotSignedIn", cmd, err)
		}
	}
}

func TestPlanShowCmd(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	env.Login(t)

	if err := (&PlanShowCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("PlanShowCmd.Run() error = %v", err)
	}
	out := env.Out.String()
	for _, want := range []string{"Daily plan for Mar 10, 2024", "0 of 5 completed", "1. [ ] Take morning medication", "5. [ ] Evening meditation"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlanToggleCmd(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)

	if err := (&PlanToggleCmd{Task: "2"}).Run(env.Ctx); err != nil {
		t.Fatalf("toggle by number error = %v", err)
	}
	if !a.Plan.Tasks()[1].Done {
		t.Error("task 2 should be done")
	}
	if !strings.Contains(env.Out.String(), `Marked "Log symptoms" done (20% complete)`) {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	id := a.Plan.Tasks()[1].ID
	if err := (&PlanToggleCmd{Task: id}).Run(env.Ctx); err != nil {
		t.Fatalf("toggle by id error = %v", err)
	}
	if a.Plan.Tasks()[1].Done {
		t.Error("task 2 should be undone after toggling twice")
	}

	for _, ref := range []string{"0", "6", "missing"} {
		if err := (&PlanToggleCmd{Task: ref}).Run(env.Ctx); err == nil {
			t.Errorf("toggle %q should fail", ref)
		}
	}
}

func TestPlanResetCmd(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)
	a.Plan.ToggleTask(a.Plan.Tasks()[0].ID)

	env.Input("n\n")
	if err := (&PlanResetCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("PlanResetCmd.Run() error = %v", err)
	}
	if a.Plan.Progress() != 20 {
		t.Error("declined reset should keep progress")
	}

	env.Input("y\n")
	if err := (&PlanResetCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("PlanResetCmd.Run() error = %v", err)
	}
	if a.Plan.Progress() != 0 {
		t.Errorf("progress after reset = %d, want 0", a.Plan.Progress())
	}
}

func TestRenderTasks(t *testing.T) {
	out := RenderTasks([]models.Task{{ID: "1", Title: "Walk", Done: true}, {ID: "2", Title: "Read"}})
	if !strings.Contains(out, "1 of 2 completed") || !strings.Contains(out, "50%") {
		t.Errorf("RenderTasks() summary wrong:\n%s", out)
	}
	if !strings.Contains(out, "1. [x] Walk") || !strings.Contains(out, "2. [ ] Read") {
		t.Errorf("RenderTasks() rows wrong:\n%s", out)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pct  int
		want string
	}{
		{0, "[░░░░░░░░░░]"},
		{40, "[████░░░░░░]"},
		{100, "[██████████]"},
		{150, "[██████████]"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.pct, 10); got != tt.want {
			t.Errorf("ProgressBar(%d) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}
