package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/plan"
	"github.com/julianstephens/wellday/internal/utils"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.mode == ModeForm && m.form != nil:
		content = m.form.View()
	case m.mode == ModeConfirmReset:
		content = m.viewConfirmReset()
	case m.mode == ModeDetail:
		content = m.viewDetail()
	default:
		switch m.tab {
		case TabToday:
			content = m.viewToday()
		case TabPlan:
			content = m.viewPlan()
		case TabCheckIn:
			content = m.viewCheckIn()
		case TabHistory:
			content = m.viewHistory()
		case TabQuestionnaire:
			content = m.viewQuestionnaire()
		}
	}

	parts := []string{m.viewTabs(), docStyle.Render(content)}
	if m.status != "" {
		parts = append(parts, "  "+m.status)
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewTabs() string {
	tabs := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) viewToday() string {
	var b strings.Builder
	email := m.app.Session.Email()
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Welcome back, "+email+"!"))
	fmt.Fprintf(&b, "%s\n\n", dimStyle.Render(utils.FormatDisplayDate(m.app.Clock.Today())))

	if _, ok := m.app.Entries.TodayCheckIn(); ok {
		fmt.Fprintf(&b, "Today's check-in   %s\n", successStyle.Render("Completed"))
	} else {
		fmt.Fprintf(&b, "Today's check-in   %s\n", pendingStyle.Render("Pending"))
	}
	pct := m.app.Plan.Progress()
	fmt.Fprintf(&b, "Daily plan         %s %d%%\n", m.progress.ViewAs(float64(pct)/100), pct)
	if m.app.Entries.Questionnaire().Completed {
		fmt.Fprintf(&b, "Questionnaire      %s\n", successStyle.Render("Completed"))
	} else {
		fmt.Fprintf(&b, "Questionnaire      %s\n", pendingStyle.Render("Pending"))
	}
	return b.String()
}

func (m *Model) viewPlan() string {
	tasks := m.app.Plan.Tasks()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Daily plan"))
	fmt.Fprintf(&b, "%s\n\n", m.renderTaskSummary(tasks))
	for i, t := range tasks {
		cursor := "  "
		if i == m.planCursor {
			cursor = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s\n", cursor, renderTask(t))
	}
	return b.String()
}

func (m *Model) renderTaskSummary(tasks []models.Task) string {
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	pct := plan.Progress(tasks)
	return fmt.Sprintf("%d of %d completed  %s %d%%", done, len(tasks), m.progress.ViewAs(float64(pct)/100), pct)
}

func renderTask(t models.Task) string {
	if t.Done {
		return "[x] " + doneStyle.Render(t.Title)
	}
	return "[ ] " + t.Title
}

func (m *Model) viewCheckIn() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Daily check-in"))
	existing, ok := m.app.Entries.TodayCheckIn()
	if !ok {
		b.WriteString("How are you feeling today?\n\n")
		b.WriteString(dimStyle.Render("Press enter to start your check-in."))
		return b.String()
	}
	b.WriteString(m.renderCheckIn(existing))
	b.WriteString("\n" + dimStyle.Render("Press enter to update today's check-in."))
	return b.String()
}

func (m *Model) viewHistory() string {
	checkIns := m.recentCheckIns()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Recent check-ins"))
	if len(checkIns) == 0 {
		b.WriteString("No check-ins yet. Start by completing your first daily check-in!")
		return b.String()
	}
	for i, c := range checkIns {
		cursor := "  "
		if i == m.historyCursor {
			cursor = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%-14s symptoms %s/10  stress %s/10  sleep %sh\n",
			cursor, utils.FormatDisplayDate(c.Date),
			formatNumber(c.Symptoms), formatNumber(c.Stress), formatNumber(c.SleepHours))
	}
	return b.String()
}

func (m *Model) viewDetail() string {
	checkIns := m.recentCheckIns()
	if m.historyCursor >= len(checkIns) {
		return "Check-in no longer available."
	}
	c := checkIns[m.historyCursor]
	return titleStyle.Render(utils.FormatDisplayDate(c.Date)) + "\n\n" + m.renderCheckIn(c)
}

func (m *Model) renderCheckIn(c models.CheckIn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symptoms  %s %s/10\n", m.progress.ViewAs(c.Symptoms/constants.MaxScore), formatNumber(c.Symptoms))
	fmt.Fprintf(&b, "Stress    %s %s/10\n", m.progress.ViewAs(c.Stress/constants.MaxScore), formatNumber(c.Stress))
	fmt.Fprintf(&b, "Sleep     %s %sh\n", m.progress.ViewAs(c.SleepHours/constants.MaxSleepHours), formatNumber(c.SleepHours))
	if c.Note != "" {
		fmt.Fprintf(&b, "\nNote: %s\n", c.Note)
	}
	if len(c.TasksSnapshot) > 0 {
		fmt.Fprintf(&b, "\nDaily plan: %s\n", m.renderTaskSummary(c.TasksSnapshot))
		for _, t := range c.TasksSnapshot {
			fmt.Fprintf(&b, "  %s\n", renderTask(t))
		}
	}
	return b.String()
}

func (m *Model) viewQuestionnaire() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Health questionnaire"))
	q := m.app.Entries.Questionnaire()
	if !q.Completed {
		b.WriteString("Tell us a little about yourself.\n\n")
		b.WriteString(dimStyle.Render("Press enter to fill out the questionnaire."))
		return b.String()
	}
	fmt.Fprintf(&b, "%s\n\n", successStyle.Render("Completed on "+utils.FormatDisplayDate(q.CompletedDate)))
	for _, a := range q.Answers {
		fmt.Fprintf(&b, "%s\n  %s\n", a.Question, a.Answer)
	}
	return b.String()
}

func (m *Model) viewConfirmReset() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render("Reset today's plan? Completed tasks will be cleared."),
		"",
		"[y] Yes",
		"[n] No",
	)
}
