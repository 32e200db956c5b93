package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var helpTitles = []string{"Navigation", "List", "General"}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	groups := m.keys.FullHelp()
	for i, group := range groups {
		if i < len(helpTitles) {
			b.WriteString(styles.AccentText.Bold(true).Render(helpTitles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// renderFooter shows the input line while adding or editing, then the
// short help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var lines []string

	switch m.mode {
	case modeAdd, modeEdit:
		label := "Add: "
		if m.mode == modeEdit {
			label = "Edit: "
		}
		line := styles.AccentText.Render(label) + m.input.View()
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Width(m.width).
			Render(line))
	}

	if m.status != "" {
		style := styles.SuccessText
		if m.statusIsError {
			style = styles.DangerText
		}
		lines = append(lines, style.Render(m.status))
	}

	var bindings help.KeyMap = m.keys
	if m.mode != modeBrowse {
		bindings = inputKeyMap{Confirm: m.keys.Confirm, Cancel: m.keys.Cancel}
	}
	m.help.Width = m.width
	lines = append(lines, m.help.View(bindings))

	return strings.Join(lines, "\n")
}
