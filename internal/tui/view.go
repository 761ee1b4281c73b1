package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amterp/tally/internal/model"
)

var (
	colorMuted  = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	colorAccent = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"}
	colorError  = lipgloss.AdaptiveColor{Dark: "#ef4444", Light: "#dc2626"}

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleError    = lipgloss.NewStyle().Foreground(colorError)
	styleSelected = lipgloss.NewStyle().Bold(true)
	styleCount    = lipgloss.NewStyle().Bold(true).Width(20).Align(lipgloss.Right)
	stylePanel    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

const helpText = `Counters
  j/k, ↑/↓   move cursor        a        add counter
  + or =     increment          -        decrement
  r          rename             v        set value
  c / C      next / prev color  x or d   delete
  K / J      move up / down     T / B    move to top / bottom

Filter
  f          show / hide filter panel
  /          edit filter text (esc reverts)
  1-7        toggle a color while the panel is shown

  ?          close help         q        quit`

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Tally"))
	total := len(m.session.Counters())
	visible := m.session.Visible()
	if m.session.FilterVisible() {
		b.WriteString(styleMuted.Render(fmt.Sprintf("  %d of %d shown", len(visible), total)))
	} else {
		b.WriteString(styleMuted.Render(fmt.Sprintf("  %d counters", total)))
	}
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(stylePanel.Render(helpText))
		b.WriteString("\n")
		return b.String()
	}

	if m.session.FilterVisible() {
		b.WriteString(m.renderFilterPanel())
		b.WriteString("\n")
	}

	if len(visible) == 0 {
		if total == 0 {
			b.WriteString(styleMuted.Render("  No counters yet."))
		} else {
			b.WriteString(styleMuted.Render("  No counters match the filter."))
		}
		b.WriteString("\n")
	}
	for i, c := range visible {
		b.WriteString(m.renderRow(c, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case modeRename, modeValue:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	status := m.status
	if m.statusErr {
		status = styleError.Render(status)
	} else {
		status = styleMuted.Render(status)
	}
	b.WriteString(status)
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderRow(c model.Counter, selected bool) string {
	cursor := "  "
	title := c.Title
	if selected {
		cursor = styleTitle.Render("› ")
		title = styleSelected.Render(title)
	}

	minus := "-"
	if !c.CanDecrement() {
		minus = styleMuted.Render(minus)
	}
	plus := "+"
	if !c.CanIncrement() {
		plus = styleMuted.Render(plus)
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		cursor,
		m.swatch(c.Color),
		lipgloss.NewStyle().Width(24).Render(title),
		minus,
		styleCount.Render(strconv.FormatUint(c.Count, 10)),
		plus,
	)
}

func (m *Model) renderFilterPanel() string {
	var swatches []string
	for i, color := range model.AllColors() {
		mark := " "
		if m.session.IsFilterColorSelected(color) {
			mark = "✓"
		}
		swatches = append(swatches, fmt.Sprintf("%d%s%s", i+1, m.swatch(color), mark))
	}

	text := m.session.FilterText()
	if m.mode == modeFilterText {
		text = m.input.View()
	} else if text == "" {
		text = styleMuted.Render("(press / to filter by title)")
	}

	return stylePanel.Render(strings.Join(swatches, " ") + "\n" + text)
}

// swatch renders a color block; the system color follows the terminal.
func (m *Model) swatch(c model.Color) string {
	hex := m.palette.Hex(c)
	if hex == "" {
		return styleMuted.Render("██")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")
}
