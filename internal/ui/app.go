// Package ui renders a watched API call with Bubble Tea.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cellgit/BearBasic/internal/prefs"
	"github.com/cellgit/BearBasic/internal/state"
)

// Options configures the UI.
type Options struct {
	Store     *state.Store
	Title     string // e.g. "GET /user/profile"
	BaseURL   string
	PollTick  time.Duration
	ThemeName string
	// PrefsPath receives the theme when the user cycles it; empty disables saving.
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	store     *state.Store
	title     string
	baseURL   string
	pollTick  time.Duration
	prefsPath string

	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	snapshot    state.Snapshot
	lastUpdated time.Time
	viewport    viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	return Model{
		store:     opts.Store,
		title:     opts.Title,
		baseURL:   opts.BaseURL,
		pollTick:  pollTick,
		prefsPath: opts.PrefsPath,
		theme:     GetTheme(opts.ThemeName),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(m.height-4, 1)
		bodyWidth := max(m.width-4, 1)
		if !m.ready {
			m.viewport = viewport.New(bodyWidth, bodyHeight)
			m.ready = true
		} else {
			m.viewport.Width = bodyWidth
			m.viewport.Height = bodyHeight
		}
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case themeSavedMsg:
		// A failed save only loses the preference.
		return m, nil

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		if m.ready {
			m.viewport.SetContent(m.renderBody())
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.ready {
			m.viewport.SetContent(m.renderBody())
		}
		return m, saveThemeCmd(m.prefsPath, m.theme.Name)
	case key.Matches(msg, keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type themeSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func saveThemeCmd(path, theme string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		p := prefs.Load(path)
		p.Theme = theme
		return themeSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
