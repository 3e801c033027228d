package checkins

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/cli/clitest"
	"github.com/julianstephens/wellday/internal/entries"
	"github.com/julianstephens/wellday/internal/models"
)

func ptr(v float64) *float64 { return &v }

func TestCommandsRequireLogin(t *testing.T) {
	env := clitest.New(t, "2024-03-10")

	cmds := []interface{ Run(*cli.Context) error }{
		&CheckinCmd{Symptoms: ptr(1), Stress: ptr(1), Sleep: ptr(7)},
		&HistoryCmd{},
		&TodayCmd{},
	}
	for _, cmd := range cmds {
		if err := cmd.Run(env.Ctx); !errors.Is(err, cli.ErrNotSignedIn) {
			t.Errorf("%T.Run() error = %v, want ErrNotSignedIn", cmd, err)
		}
	}
}

func TestCheckinCmd(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)
	a.Plan.ToggleTask(a.Plan.Tasks()[0].ID)

	cmd := &CheckinCmd{Symptoms: ptr(3), Stress: ptr(4.5), Sleep: ptr(7), Note: "ok"}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("CheckinCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "Check-in saved for Mar 10, 2024") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	got, ok := a.Entries.TodayCheckIn()
	if !ok {
		t.Fatal("today's check-in missing")
	}
	if got.Symptoms != 3 || got.Stress != 4.5 || got.SleepHours != 7 || got.Note != "ok" {
		t.Errorf("stored check-in = %+v", got)
	}
	if len(got.TasksSnapshot) != 5 || !got.TasksSnapshot[0].Done {
		t.Errorf("snapshot = %+v, want today's plan", got.TasksSnapshot)
	}
}

func TestCheckinCmdPastDateHasNoSnapshot(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)

	cmd := &CheckinCmd{Symptoms: ptr(1), Stress: ptr(1), Sleep: ptr(8), Date: "2024-03-08"}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("CheckinCmd.Run() error = %v", err)
	}
	got, ok := a.Entries.CheckInFor("2024-03-08")
	if !ok {
		t.Fatal("check-in for 2024-03-08 missing")
	}
	if len(got.TasksSnapshot) != 0 {
		t.Errorf("snapshot = %+v, want none", got.TasksSnapshot)
	}
}

func TestCheckinCmdReplace(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)

	first := &CheckinCmd{Symptoms: ptr(2), Stress: ptr(2), Sleep: ptr(6)}
	if err := first.Run(env.Ctx); err != nil {
		t.Fatalf("first check-in error = %v", err)
	}

	env.Input("n\n")
	second := &CheckinCmd{Symptoms: ptr(9), Stress: ptr(9), Sleep: ptr(3)}
	if err := second.Run(env.Ctx); err != nil {
		t.Fatalf("declined replace error = %v", err)
	}
	if got, _ := a.Entries.TodayCheckIn(); got.Symptoms != 2 {
		t.Errorf("declined replace changed symptoms to %v", got.Symptoms)
	}

	second.Yes = true
	if err := second.Run(env.Ctx); err != nil {
		t.Fatalf("replace error = %v", err)
	}
	if got, _ := a.Entries.TodayCheckIn(); got.Symptoms != 9 {
		t.Errorf("symptoms = %v, want 9", got.Symptoms)
	}
	if n := len(a.Entries.CheckIns()); n != 1 {
		t.Errorf("len(CheckIns()) = %d, want 1", n)
	}
	if !strings.Contains(env.Out.String(), "Check-in updated") {
		t.Errorf("output missing update message: %q", env.Out.String())
	}
}

func TestCheckinCmdErrors(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	env.Login(t)

	tests := []struct {
		name string
		cmd  *CheckinCmd
		want error
	}{
		{"out of range", &CheckinCmd{Symptoms: ptr(11), Stress: ptr(1), Sleep: ptr(7)}, entries.ErrInvalidCheckIn},
		{"too much sleep", &CheckinCmd{Symptoms: ptr(1), Stress: ptr(1), Sleep: ptr(13)}, entries.ErrInvalidCheckIn},
		{"bad date", &CheckinCmd{Symptoms: ptr(1), Stress: ptr(1), Sleep: ptr(7), Date: "03/10/2024"}, nil},
		{"missing flags", &CheckinCmd{Symptoms: ptr(1)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(env.Ctx)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHistoryCmd(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)

	if err := (&HistoryCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("HistoryCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "No check-ins yet") {
		t.Errorf("empty history output = %q", env.Out.String())
	}

	for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09"} {
		if _, err := a.Entries.CreateCheckIn(entries.CheckInPayload{Date: d, Symptoms: 2, Stress: 3, SleepHours: 7.5}); err != nil {
			t.Fatalf("CreateCheckIn(%s) error = %v", d, err)
		}
	}

	env.Out.Reset()
	if err := (&HistoryCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("HistoryCmd.Run() error = %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "Mar 9, 2024") || !strings.Contains(out, "7.5h") {
		t.Errorf("history missing newest row:\n%s", out)
	}
	if strings.Contains(out, "Mar 2, 2024") {
		t.Errorf("default history should stop at 7 rows:\n%s", out)
	}

	env.Out.Reset()
	if err := (&HistoryCmd{All: true}).Run(env.Ctx); err != nil {
		t.Fatalf("HistoryCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "Mar 1, 2024") {
		t.Errorf("--all should list every check-in:\n%s", env.Out.String())
	}

	env.Out.Reset()
	if err := (&HistoryCmd{Limit: 2}).Run(env.Ctx); err != nil {
		t.Fatalf("HistoryCmd.Run() error = %v", err)
	}
	if rows := strings.Count(env.Out.String(), "2024"); rows != 2 {
		t.Errorf("--limit 2 printed %d rows:\n%s", rows, env.Out.String())
	}
}

func TestHistoryCmdDetail(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)

	if err := (&HistoryCmd{Date: "2024-03-09"}).Run(env.Ctx); err == nil {
		t.Error("detail for a missing date should fail")
	}

	_, err := a.Entries.CreateCheckIn(entries.CheckInPayload{
		Date: "2024-03-09", Symptoms: 5, Stress: 2, SleepHours: 6, Note: "headache",
		TasksSnapshot: []models.Task{{ID: "t1", Title: "Walk", Done: true}},
	})
	if err != nil {
		t.Fatalf("CreateCheckIn() error = %v", err)
	}
	if err := (&HistoryCmd{Date: "2024-03-09"}).Run(env.Ctx); err != nil {
		t.Fatalf("HistoryCmd.Run() error = %v", err)
	}
	out := env.Out.String()
	for _, want := range []string{"Mar 9, 2024", "5/10", "6h", "headache", "1. [x] Walk"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestTodayCmd(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)

	if err := (&TodayCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("TodayCmd.Run() error = %v", err)
	}
	out := env.Out.String()
	for _, want := range []string{"Welcome back, a@b.co!", "Today's check-in  Pending", "0%", "Questionnaire     Pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}

	a.Plan.ToggleTask(a.Plan.Tasks()[0].ID)
	if _, err := a.Entries.CreateCheckIn(entries.CheckInPayload{Symptoms: 1, Stress: 1, SleepHours: 8}); err != nil {
		t.Fatalf("CreateCheckIn() error = %v", err)
	}
	if err := a.Entries.SetQuestionnaire([]models.QuestionnaireAnswer{{ID: "q", Question: "Goal", Answer: models.StringAnswer("Sleep")}}); err != nil {
		t.Fatalf("SetQuestionnaire() error = %v", err)
	}

	env.Out.Reset()
	if err := (&TodayCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("TodayCmd.Run() error = %v", err)
	}
	out = env.Out.String()
	for _, want := range []string{"Today's check-in   Completed", "20%", "Questionnaire      Completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}
}
