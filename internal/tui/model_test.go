package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amterp/tally/internal/model"
	"github.com/amterp/tally/testutil"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return New(testutil.NewSession(t), nil)
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

// typeText sends each rune as its own key press.
func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// clearInput deletes everything in the active text input.
func clearInput(m *Model) {
	for range m.input.Value() {
		press(m, "backspace")
	}
}

func titles(counters []model.Counter) string {
	out := make([]string, len(counters))
	for i, c := range counters {
		out[i] = c.Title
	}
	return strings.Join(out, ",")
}

func TestModel_AddIncrementDecrement(t *testing.T) {
	m := newTestModel(t)

	press(m, "a", "+", "+", "=", "-")

	counters := m.session.Counters()
	if len(counters) != 1 {
		t.Fatalf("Expected 1 counter, got %d", len(counters))
	}
	if counters[0].Title != model.DefaultTitle {
		t.Errorf("Title = %q, want %q", counters[0].Title, model.DefaultTitle)
	}
	if counters[0].Count != 2 {
		t.Errorf("Count = %d, want 2", counters[0].Count)
	}
}

func TestModel_DecrementAtZeroIgnored(t *testing.T) {
	m := newTestModel(t)

	press(m, "a", "-", "-")

	if got := m.session.Counters()[0].Count; got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
	if m.statusErr {
		t.Errorf("Bound guard should be silent, got error status %q", m.status)
	}
}

func TestModel_IncrementAtMaxIgnored(t *testing.T) {
	m := newTestModel(t)
	c := m.session.Add("big", model.ColorSystem)
	m.session.SetValue(c.ID, model.MaxCount)

	press(m, "+")

	if got := m.session.Counters()[0].Count; got != model.MaxCount {
		t.Errorf("Count = %d, want %d", got, model.MaxCount)
	}
}

func TestModel_Rename(t *testing.T) {
	m := newTestModel(t)
	press(m, "a", "r")

	if m.mode != modeRename {
		t.Fatalf("mode = %v, want rename", m.mode)
	}
	clearInput(m)
	typeText(m, "Laps")
	press(m, "enter")

	if got := m.session.Counters()[0].Title; got != "Laps" {
		t.Errorf("Title = %q, want %q", got, "Laps")
	}
	if m.mode != modeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
}

func TestModel_RenameCancelled(t *testing.T) {
	m := newTestModel(t)
	press(m, "a", "r")
	typeText(m, "xyz")
	press(m, "esc")

	if got := m.session.Counters()[0].Title; got != model.DefaultTitle {
		t.Errorf("Title = %q, want %q", got, model.DefaultTitle)
	}
}

func TestModel_SetValue(t *testing.T) {
	m := newTestModel(t)
	press(m, "a", "v")
	clearInput(m)
	typeText(m, "42")
	press(m, "enter")

	if got := m.session.Counters()[0].Count; got != 42 {
		t.Errorf("Count = %d, want 42", got)
	}
}

func TestModel_SetValueRejectsNonNumeric(t *testing.T) {
	tests := []string{"abc", "-3", "1.5", "99999999999999999999"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			m := newTestModel(t)
			press(m, "a", "+", "v")
			clearInput(m)
			typeText(m, input)
			press(m, "enter")

			if got := m.session.Counters()[0].Count; got != 1 {
				t.Errorf("Count = %d, want 1", got)
			}
			if !m.statusErr {
				t.Error("Expected an error status")
			}
			if m.mode != modeValue {
				t.Errorf("mode = %v, want value input to stay open", m.mode)
			}
		})
	}
}

func TestModel_CycleColor(t *testing.T) {
	m := newTestModel(t)
	press(m, "a", "c", "c")

	if got := m.session.Counters()[0].Color; got != model.ColorOrange {
		t.Errorf("Color = %v, want orange", got)
	}

	press(m, "C", "C", "C")
	if got := m.session.Counters()[0].Color; got != model.ColorPurple {
		t.Errorf("Color = %v, want purple (wrapped)", got)
	}
}

func TestModel_MoveFollowsCursor(t *testing.T) {
	m := newTestModel(t)
	testutil.Seed(m.session, "A", "B", "C")

	press(m, "down", "K")
	if got := titles(m.session.Counters()); got != "B,A,C" {
		t.Errorf("Order = %s, want B,A,C", got)
	}
	if c, _ := m.selected(); c.Title != "B" {
		t.Errorf("Cursor on %q, want B", c.Title)
	}

	press(m, "B")
	if got := titles(m.session.Counters()); got != "A,C,B" {
		t.Errorf("Order = %s, want A,C,B", got)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	press(m, "T")
	if got := titles(m.session.Counters()); got != "B,A,C" {
		t.Errorf("Order = %s, want B,A,C", got)
	}

	press(m, "J")
	if got := titles(m.session.Counters()); got != "A,B,C" {
		t.Errorf("Order = %s, want A,B,C", got)
	}
}

func TestModel_Delete(t *testing.T) {
	m := newTestModel(t)
	testutil.Seed(m.session, "A", "B")

	press(m, "down", "x")
	if got := titles(m.session.Counters()); got != "A" {
		t.Errorf("Counters = %s, want A", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	press(m, "d")
	if n := len(m.session.Counters()); n != 0 {
		t.Errorf("Expected no counters, got %d", n)
	}
	press(m, "d", "+", "r") // no-ops on an empty list
	if m.mode != modeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
}

func TestModel_FilterColors(t *testing.T) {
	m := newTestModel(t)
	m.session.Add("apple", model.ColorRed)
	m.session.Add("banana", model.ColorBlue)

	// Color keys need the panel.
	press(m, "2")
	if m.session.IsFilterColorSelected(model.ColorRed) {
		t.Error("Color toggled while panel hidden")
	}

	press(m, "f", "2")
	if !m.session.IsFilterColorSelected(model.ColorRed) {
		t.Fatal("Expected red to be selected")
	}
	if got := titles(m.session.Visible()); got != "apple" {
		t.Errorf("Visible = %s, want apple", got)
	}

	press(m, "f")
	if got := titles(m.session.Visible()); got != "apple,banana" {
		t.Errorf("Visible with panel hidden = %s, want apple,banana", got)
	}
}

func TestModel_FilterTextLiveAndRevert(t *testing.T) {
	m := newTestModel(t)
	testutil.Seed(m.session, "apple", "banana")

	press(m, "/")
	if !m.session.FilterVisible() {
		t.Fatal("Editing filter text should show the panel")
	}
	typeText(m, "nan")
	if got := titles(m.session.Visible()); got != "banana" {
		t.Errorf("Visible while typing = %s, want banana", got)
	}

	press(m, "esc")
	if m.session.FilterText() != "" {
		t.Errorf("FilterText = %q, want reverted to empty", m.session.FilterText())
	}

	press(m, "/")
	typeText(m, "app")
	press(m, "enter")
	if m.session.FilterText() != "app" {
		t.Errorf("FilterText = %q, want %q", m.session.FilterText(), "app")
	}
}

func TestModel_HelpAndQuit(t *testing.T) {
	m := newTestModel(t)

	press(m, "?")
	if !m.showHelp {
		t.Fatal("Expected help to be shown")
	}
	press(m, "a") // ignored while help is open
	if n := len(m.session.Counters()); n != 0 {
		t.Errorf("Expected no counters, got %d", n)
	}
	press(m, "esc")
	if m.showHelp {
		t.Error("Expected help to close")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	m.session.Add("Laps", model.ColorGreen)
	press(m, "+", "+", "+")

	view := m.View()
	for _, want := range []string{"Tally", "Laps", "3"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}

	press(m, "?")
	if !strings.Contains(m.View(), "toggle a color") {
		t.Error("Help view missing key list")
	}
}
