package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/five82/shoplist/internal/item"
	"github.com/five82/shoplist/internal/prefs"
	"github.com/five82/shoplist/internal/shopping"
	"github.com/five82/shoplist/internal/state"
)

// ThemeKey is the preference key holding the selected theme name.
const ThemeKey = "theme"

var errBlankInput = errors.New("name cannot be empty")

// List is the part of the shopping list manager the UI drives.
type List interface {
	Submit(cmd shopping.Command) <-chan error
	Subscribe(ctx context.Context) <-chan state.Snapshot
	Failures(ctx context.Context) <-chan error
}

// PrefsEditor persists UI preferences.
type PrefsEditor interface {
	Edit(ctx context.Context, fn func(prefs.Prefs)) error
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	List      List
	Prefs     PrefsEditor // optional; theme changes are not saved when nil
	ThemeName string
	Now       func() time.Time
	Location  *time.Location
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx   context.Context
	list  List
	prefs PrefsEditor
	now   func() time.Time
	loc   *time.Location

	snapshots <-chan state.Snapshot
	failures  <-chan error

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot state.Snapshot
	rows     []item.Item
	cursor   int

	// Input state
	mode    mode
	input   textinput.Model
	editing uuid.UUID

	status        string
	statusIsError bool
}

// New creates a new Bubble Tea model and subscribes to the list.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	input := textinput.New()
	input.Placeholder = "Item name"
	input.CharLimit = 200

	return Model{
		ctx:       ctx,
		list:      opts.List,
		prefs:     opts.Prefs,
		now:       now,
		loc:       loc,
		snapshots: opts.List.Subscribe(ctx),
		failures:  opts.List.Failures(ctx),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.ThemeName),
		input:     input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitSnapshot(m.snapshots),
		waitFailure(m.failures),
		tickCmd(refreshInterval),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 10)
		m.ready = true
		return m, nil

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, waitSnapshot(m.snapshots)

	case tickMsg:
		return m, tickCmd(refreshInterval)

	case listClosedMsg:
		return m, tea.Quit

	case failureMsg:
		m.setError(fmt.Errorf("not saved: %w", msg.err))
		return m, waitFailure(m.failures)

	case commandDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("save theme: %w", msg.err))
		}
		return m, nil
	}

	if m.mode != modeBrowse {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
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

func (m *Model) applySnapshot(snap state.Snapshot) {
	var selected uuid.UUID
	if row, ok := m.selected(); ok {
		selected = row.ID
	}

	m.snapshot = snap
	m.rows = displayOrder(snap.Items)
	m.cursor = clampCursor(m.cursor, len(m.rows))

	// Keep the cursor on the same entry when it moved between sections.
	if selected != uuid.Nil {
		for idx, row := range m.rows {
			if row.ID == selected {
				m.cursor = idx
				break
			}
		}
	}
}

func (m Model) selected() (item.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return item.Item{}, false
	}
	return m.rows[m.cursor], true
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.mode != modeBrowse {
		return m.handleInputKey(msg)
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, m.saveTheme(m.theme.Name)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = clampCursor(len(m.rows)-1, len(m.rows))

	case key.Matches(msg, m.keys.Add):
		return m.openInput(modeAdd, "", uuid.Nil)

	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.selected(); ok {
			return m.openInput(modeEdit, row.Name, row.ID)
		}

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.selected(); ok {
			return m, m.submit(shopping.ToggleCommand(row.ID))
		}

	case key.Matches(msg, m.keys.Remove):
		if row, ok := m.selected(); ok {
			return m, m.submit(shopping.RemoveCommand(row.ID))
		}
	}
	return m, nil
}

func (m Model) openInput(next mode, value string, id uuid.UUID) (tea.Model, tea.Cmd) {
	m.mode = next
	m.editing = id
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.editing = uuid.Nil
	m.input.Blur()
	m.input.Reset()
}

// handleInputKey processes keys while the add or edit line is open. Blank
// names keep the line open with an error.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		switch m.mode {
		case modeAdd:
			it, err := item.New(m.input.Value(), m.now())
			if err != nil {
				m.setError(errBlankInput)
				return m, nil
			}
			m.closeInput()
			m.setStatus(fmt.Sprintf("Added %s", it.Name))
			return m, m.submit(shopping.AddCommand(it))

		case modeEdit:
			name, err := item.CleanName(m.input.Value())
			if err != nil {
				m.setError(errBlankInput)
				return m, nil
			}
			id := m.editing
			m.closeInput()
			return m, m.submit(shopping.RenameCommand(id, name))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit enqueues cmd immediately so commands keep keystroke order; only the
// reply is awaited off the update loop.
func (m Model) submit(cmd shopping.Command) tea.Cmd {
	reply := m.list.Submit(cmd)
	return func() tea.Msg {
		select {
		case err := <-reply:
			return commandDoneMsg{err: err}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) saveTheme(name string) tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	editor := m.prefs
	ctx := m.ctx
	return func() tea.Msg {
		err := editor.Edit(ctx, func(p prefs.Prefs) { p[ThemeKey] = name })
		return themeSavedMsg{err: err}
	}
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusIsError = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusIsError = true
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type listClosedMsg struct{}

type failureMsg struct{ err error }

type commandDoneMsg struct{ err error }

type themeSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitSnapshot(ch <-chan state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return listClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func waitFailure(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return failureMsg{err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
