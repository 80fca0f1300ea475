// Package ui renders the task application in a terminal.
package ui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"task-manager/app"
)

// RunTUI starts the terminal client and blocks until the user quits.
func RunTUI(ctx context.Context, api app.API, logger *log.Logger) error {
	program := tea.NewProgram(New(ctx, api, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return exitError(ctx, err)
}

// exitError treats a program stopped by ctx as a clean exit.
func exitError(ctx context.Context, err error) error {
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeSearch
)

// actionMsg carries the outcome of an effect back into Update.
type actionMsg struct {
	action app.Action
}

type Model struct {
	ctx    context.Context
	api    app.API
	logger *log.Logger

	state  app.State
	mode   inputMode
	cursor int
	width  int
}

func New(ctx context.Context, api app.API, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Model{
		ctx:    ctx,
		api:    api,
		logger: logger,
		state:  app.NewState(),
	}
}

// State exposes the current application state.
func (m *Model) State() app.State {
	return m.state
}

func (m *Model) Init() tea.Cmd {
	return m.dispatch(app.Load{})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionMsg:
		if f, ok := msg.action.(app.RequestFailed); ok {
			m.logger.Warn("request failed", "op", f.Op, "err", f.Err)
		}
		return m, m.dispatch(msg.action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.state.EditingID != "" {
			return m, m.editKey(msg)
		}
		switch m.mode {
		case modeAdd:
			return m, m.addKey(msg)
		case modeSearch:
			return m, m.searchKey(msg)
		default:
			return m, m.browseKey(msg)
		}
	}
	return m, nil
}

// dispatch runs an action through the reducer and turns its effect into a command.
func (m *Model) dispatch(a app.Action) tea.Cmd {
	next, eff := app.Reduce(m.state, a)
	m.state = next
	m.clampCursor()
	if eff == nil {
		return nil
	}
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		return actionMsg{action: eff(ctx, api)}
	}
}

func (m *Model) browseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "a":
		m.mode = modeAdd
	case "/":
		m.mode = modeSearch
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "e":
		if id, ok := m.selected(); ok {
			return m.dispatch(app.StartEditing{ID: id})
		}
	case " ", "space", "x":
		if id, ok := m.selected(); ok {
			return m.dispatch(app.ToggleComplete{ID: id})
		}
	case "d":
		if id, ok := m.selected(); ok {
			return m.dispatch(app.DeleteTask{ID: id})
		}
	case "f":
		return m.dispatch(app.SetFilter{Filter: nextFilter(m.state.Filter)})
	case "s":
		return m.dispatch(app.SetSort{SortBy: nextSort(m.state.SortBy)})
	case "r":
		return m.dispatch(app.Load{})
	}
	return nil
}

func (m *Model) addKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeBrowse
		return m.dispatch(app.AddTask{})
	case tea.KeyEsc:
		m.mode = modeBrowse
		return nil
	}
	if text, ok := editText(m.state.NewTaskText, msg); ok {
		return m.dispatch(app.SetNewTaskText{Text: text})
	}
	return nil
}

func (m *Model) searchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.mode = modeBrowse
		return nil
	}
	if text, ok := editText(m.state.Search, msg); ok {
		m.cursor = 0
		return m.dispatch(app.SetSearch{Term: text})
	}
	return nil
}

func (m *Model) editKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.dispatch(app.SaveEdit{})
	case tea.KeyEsc:
		return m.dispatch(app.CancelEditing{})
	}
	if text, ok := editText(m.state.EditingText, msg); ok {
		return m.dispatch(app.SetEditText{Text: text})
	}
	return nil
}

func (m *Model) selected() (string, bool) {
	visible := m.state.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return "", false
	}
	return visible[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := len(m.state.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// editText applies a key press to a single-line text buffer.
func editText(s string, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyBackspace:
		r := []rune(s)
		if len(r) == 0 {
			return s, false
		}
		return string(r[:len(r)-1]), true
	case tea.KeySpace:
		return s + " ", true
	case tea.KeyRunes:
		return s + string(msg.Runes), true
	}
	return s, false
}

func nextFilter(f app.Filter) app.Filter {
	for i, v := range app.Filters {
		if v == f {
			return app.Filters[(i+1)%len(app.Filters)]
		}
	}
	return app.FilterAll
}

func nextSort(k app.SortKey) app.SortKey {
	for i, v := range app.SortKeys {
		if v == k {
			return app.SortKeys[(i+1)%len(app.SortKeys)]
		}
	}
	return app.SortCreatedDesc
}
