// Package tui is the terminal front-end: a bubbletea program driving a
// service.Session from the keyboard.
package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amterp/tally/internal/logging"
	"github.com/amterp/tally/internal/model"
	"github.com/amterp/tally/internal/service"
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeRename
	modeValue
	modeFilterText
)

// Model is the bubbletea model. All session access happens inside Update,
// which bubbletea runs on a single goroutine.
type Model struct {
	session *service.Session
	palette model.Palette

	cursor int // index into the visible list
	mode   uiMode
	input  textinput.Model

	editingID  string // counter being renamed or revalued
	filterPrev string // filter text to restore on esc

	showHelp  bool
	status    string
	statusErr bool

	width  int
	height int
}

// New creates a model over session. A nil palette uses the default colors.
func New(session *service.Session, palette model.Palette) *Model {
	if palette == nil {
		palette = model.DefaultPalette()
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 256

	return &Model{
		session: session,
		palette: palette,
		input:   input,
		status:  "Press a to add a counter, ? for help",
	}
}

// Run starts the program and blocks until the user quits.
func Run(session *service.Session, palette model.Palette) error {
	_, err := tea.NewProgram(New(session, palette), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m, m.updateInputMode(msg)
		}
		if quit := m.updateNormalMode(msg); quit {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) bool {
	if m.showHelp {
		switch msg.String() {
		case "ctrl+c", "q":
			return true
		case "?", "esc":
			m.showHelp = false
		}
		return false
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return true
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.session.Visible()) - 1
		m.clampCursor()
	case "a":
		m.addCounter()
	case "+", "=":
		m.increment()
	case "-":
		m.decrement()
	case "r":
		m.startRename()
	case "v":
		m.startValue()
	case "c":
		m.cycleColor(model.Color.Next)
	case "C":
		m.cycleColor(model.Color.Prev)
	case "K":
		m.move(m.session.MoveUp, "up")
	case "J":
		m.move(m.session.MoveDown, "down")
	case "T":
		m.move(m.session.MoveTop, "to top")
	case "B":
		m.move(m.session.MoveBottom, "to bottom")
	case "x", "d":
		m.deleteSelected()
	case "f":
		m.toggleFilterPanel()
	case "/":
		m.startFilterText()
	case "1", "2", "3", "4", "5", "6", "7":
		n, _ := strconv.Atoi(msg.String())
		m.toggleFilterColor(model.Color(n - 1))
	case "?":
		m.showHelp = true
	}
	return false
}

func (m *Model) updateInputMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeFilterText {
			m.session.SetFilterText(m.filterPrev)
		}
		m.endInput("Cancelled", false)
		return nil
	case tea.KeyEnter:
		m.commitInput()
		return nil
	case tea.KeyCtrlC:
		return tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeFilterText {
		m.session.SetFilterText(m.input.Value())
		m.clampCursor()
	}
	return cmd
}

func (m *Model) commitInput() {
	switch m.mode {
	case modeRename:
		if err := m.session.SetTitle(m.editingID, m.input.Value()); err != nil {
			m.endInput(err.Error(), true)
			return
		}
		m.endInput("Renamed", false)

	case modeValue:
		value, err := model.ParseCount(m.input.Value())
		if err != nil {
			// Stay in the input so the user can fix it.
			m.setStatus(err.Error(), true)
			return
		}
		if err := m.session.SetValue(m.editingID, value); err != nil {
			m.endInput(err.Error(), true)
			return
		}
		m.endInput(fmt.Sprintf("Set to %d", value), false)

	case modeFilterText:
		m.endInput("Filter updated", false)
	}
}

func (m *Model) startInput(mode uiMode, value, placeholder string) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) endInput(status string, isErr bool) {
	m.mode = modeNormal
	m.editingID = ""
	m.input.Blur()
	m.input.SetValue("")
	m.setStatus(status, isErr)
	m.clampCursor()
}

func (m *Model) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
	if isErr {
		log := logging.Component("tui")
		log.Debug().Str("status", status).Msg("action failed")
	}
}

// selected returns the counter under the cursor.
func (m *Model) selected() (model.Counter, bool) {
	visible := m.session.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return model.Counter{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.session.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// follow puts the cursor on id if it is visible.
func (m *Model) follow(id string) {
	for i, c := range m.session.Visible() {
		if c.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) addCounter() {
	c := m.session.Add("", model.ColorSystem)
	m.follow(c.ID)
	m.setStatus(fmt.Sprintf("Added %q", c.Title), false)
}

func (m *Model) increment() {
	c, ok := m.selected()
	if !ok || !c.CanIncrement() {
		return
	}
	m.report(m.session.Increment(c.ID), "")
}

func (m *Model) decrement() {
	c, ok := m.selected()
	if !ok || !c.CanDecrement() {
		return
	}
	m.report(m.session.Decrement(c.ID), "")
}

func (m *Model) startRename() {
	c, ok := m.selected()
	if !ok {
		return
	}
	m.editingID = c.ID
	m.startInput(modeRename, c.Title, "title")
	m.setStatus("Rename: enter to save, esc to cancel", false)
}

func (m *Model) startValue() {
	c, ok := m.selected()
	if !ok {
		return
	}
	m.editingID = c.ID
	m.startInput(modeValue, strconv.FormatUint(c.Count, 10), "value")
	m.setStatus("Set value: enter to save, esc to cancel", false)
}

func (m *Model) cycleColor(step func(model.Color) model.Color) {
	c, ok := m.selected()
	if !ok {
		return
	}
	next := step(c.Color)
	if m.report(m.session.SetColor(c.ID, next), "Color: "+next.String()) {
		m.follow(c.ID)
	}
}

func (m *Model) move(op func(id string) error, where string) {
	c, ok := m.selected()
	if !ok {
		return
	}
	if m.report(op(c.ID), fmt.Sprintf("Moved %q %s", c.Title, where)) {
		m.follow(c.ID)
	}
}

func (m *Model) deleteSelected() {
	c, ok := m.selected()
	if !ok {
		return
	}
	if m.report(m.session.Delete(c.ID), fmt.Sprintf("Deleted %q", c.Title)) {
		m.clampCursor()
	}
}

func (m *Model) toggleFilterPanel() {
	m.session.ToggleFilterPanel()
	m.clampCursor()
	if m.session.FilterVisible() {
		m.setStatus("Filter on: 1-7 toggle colors, / edit text", false)
	} else {
		m.setStatus("Filter off", false)
	}
}

func (m *Model) startFilterText() {
	if !m.session.FilterVisible() {
		m.session.ToggleFilterPanel()
	}
	m.filterPrev = m.session.FilterText()
	m.startInput(modeFilterText, m.filterPrev, "title contains")
	m.setStatus("Filter text: enter to keep, esc to revert", false)
}

func (m *Model) toggleFilterColor(color model.Color) {
	if !m.session.FilterVisible() {
		m.setStatus("Filter panel is hidden (press f)", true)
		return
	}
	m.session.ToggleFilterColor(color)
	m.clampCursor()
}

// report sets the status from err and returns whether the action succeeded.
func (m *Model) report(err error, success string) bool {
	if err != nil {
		m.setStatus(err.Error(), true)
		return false
	}
	if success != "" {
		m.setStatus(success, false)
	}
	return true
}
