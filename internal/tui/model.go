// Package tui is the interactive wellday dashboard: today's overview, the daily
// plan checklist, the check-in and questionnaire forms, and recent history.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/app"
	"github.com/julianstephens/wellday/internal/models"
)

// Tab is one of the top-level screens
type Tab int

const (
	TabToday Tab = iota
	TabPlan
	TabCheckIn
	TabHistory
	TabQuestionnaire
)

var tabTitles = []string{"Today", "Plan", "Check-in", "History", "Questionnaire"}

// Mode is what the active tab is doing
type Mode int

const (
	ModeBrowse Mode = iota
	ModeForm
	ModeConfirmReset
	ModeDetail
)

type formKind int

const (
	formCheckIn formKind = iota
	formQuestionnaire
)

// storeChangedMsg is sent after any store publishes a new state
type storeChangedMsg struct{}

type Model struct {
	app      *app.App
	tab      Tab
	mode     Mode
	keys     KeyMap
	help     help.Model
	progress progress.Model

	planCursor    int
	historyCursor int

	form          *huh.Form
	formKind      formKind
	checkInFields *checkInFields
	surveyFields  *surveyFields

	// status is a one-line message about the last action
	status   string
	quitting bool
	width    int
	height   int

	changes     chan struct{}
	unsubscribe []func()
}

// NewModel builds the dashboard over open stores. Call Close when the program exits.
func NewModel(a *app.App) *Model {
	m := &Model{
		app:      a,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		changes:  make(chan struct{}, 1),
	}

	notify := func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	m.unsubscribe = []func(){
		a.Session.Subscribe(func(models.SessionState) { notify() }),
		a.Plan.Subscribe(func(models.PlanState) { notify() }),
		a.Entries.Subscribe(func(models.EntriesState) { notify() }),
	}
	return m
}

// Close stops listening to the stores
func (m *Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks until a store publishes, then wakes Update
func (m *Model) waitForChange() tea.Cmd {
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Tab returns the active tab
func (m *Model) Tab() Tab { return m.tab }

// Mode returns what the active tab is doing
func (m *Model) Mode() Mode { return m.mode }

// Status returns the last action message
func (m *Model) Status() string { return m.status }

func (m *Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.mode {
	case ModeForm, ModeDetail:
		return []key.Binding{m.keys.Back}
	case ModeConfirmReset:
		return []key.Binding{m.keys.Yes, m.keys.No}
	}
	switch m.tab {
	case TabPlan:
		keys = append(keys, m.keys.Toggle, m.keys.Reset)
	case TabCheckIn, TabQuestionnaire, TabHistory:
		keys = append(keys, m.keys.Enter)
	}
	return keys
}

func (m *Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}
	actions := []key.Binding{m.keys.Toggle, m.keys.Reset}
	return [][]key.Binding{global, navigation, actions}
}

// recentCheckIns is what the history tab lists
func (m *Model) recentCheckIns() []models.CheckIn {
	checkIns := m.app.Entries.CheckIns()
	if len(checkIns) > historyLimit {
		checkIns = checkIns[:historyLimit]
	}
	return checkIns
}
