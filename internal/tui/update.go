package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/logger"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		m.clampCursors()
		return m, m.waitForChange()

	case tea.FocusMsg:
		// Returning to a session left open overnight starts the new day's plan
		if m.app.Plan.CheckAndResetIfNewDay() {
			m.planCursor = 0
			m.status = "A new day: your daily plan has been reset."
		}
		return m, nil
	}

	if m.mode == ModeForm {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode == ModeConfirmReset {
		switch {
		case key.Matches(keyMsg, m.keys.Yes):
			m.app.Plan.ResetDailyPlan()
			m.planCursor = 0
			m.status = "Daily plan reset."
			m.mode = ModeBrowse
		case key.Matches(keyMsg, m.keys.No):
			m.mode = ModeBrowse
		}
		return m, nil
	}

	if m.mode == ModeDetail {
		if key.Matches(keyMsg, m.keys.Back) || key.Matches(keyMsg, m.keys.Enter) {
			m.mode = ModeBrowse
			return m, nil
		}
		if key.Matches(keyMsg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.tab = (m.tab + 1) % Tab(len(tabTitles))
		m.status = ""
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.tab = (m.tab - 1 + Tab(len(tabTitles))) % Tab(len(tabTitles))
		m.status = ""
		return m, nil
	}

	switch m.tab {
	case TabPlan:
		return m.updatePlan(keyMsg)
	case TabCheckIn:
		if key.Matches(keyMsg, m.keys.Enter) {
			return m, m.openCheckInForm()
		}
	case TabHistory:
		return m.updateHistory(keyMsg)
	case TabQuestionnaire:
		if key.Matches(keyMsg, m.keys.Enter) && !m.app.Entries.Questionnaire().Completed {
			return m, m.openQuestionnaireForm()
		}
	}
	return m, nil
}

func (m *Model) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.app.Plan.Tasks()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.planCursor > 0 {
			m.planCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.planCursor < len(tasks)-1 {
			m.planCursor++
		}
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Enter):
		if m.planCursor < len(tasks) {
			m.app.Plan.ToggleTask(tasks[m.planCursor].ID)
		}
	case key.Matches(msg, m.keys.Reset):
		m.mode = ModeConfirmReset
	}
	return m, nil
}

func (m *Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.recentCheckIns())
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.historyCursor < n-1 {
			m.historyCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if n > 0 {
			m.mode = ModeDetail
		}
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.closeForm("")
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		switch m.formKind {
		case formCheckIn:
			err = m.submitCheckIn(*m.checkInFields)
		case formQuestionnaire:
			err = m.submitQuestionnaire(m.surveyFields.QuestionnaireForm)
		}
		if err != nil {
			logger.Warn("Failed to save form", "error", err)
			m.closeForm("Error: " + err.Error())
			return m, nil
		}
		m.closeForm(m.status)
		return m, nil
	case huh.StateAborted:
		m.closeForm("")
		return m, nil
	}
	return m, cmd
}

func (m *Model) closeForm(status string) {
	m.form = nil
	m.checkInFields = nil
	m.surveyFields = nil
	m.mode = ModeBrowse
	m.status = status
}

// clampCursors keeps the cursors on existing rows after the stores change
func (m *Model) clampCursors() {
	if n := len(m.app.Plan.Tasks()); m.planCursor >= n {
		m.planCursor = max(n-1, 0)
	}
	if n := len(m.recentCheckIns()); m.historyCursor >= n {
		m.historyCursor = max(n-1, 0)
	}
}
