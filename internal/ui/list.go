package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shoplist/internal/item"
)

const (
	sectionPending = "Shopping List"
	sectionOnCart  = "On Cart"

	emptyHint = "Your list is empty. Press a to add an item."

	// dateLayout is a medium date with a short time.
	dateLayout = "Jan 2, 2006 at 3:04 PM"
)

// displayOrder returns items still to collect followed by items on the cart.
func displayOrder(items []item.Item) []item.Item {
	pending, onCart := item.Split(items)
	rows := make([]item.Item, 0, len(items))
	rows = append(rows, pending...)
	return append(rows, onCart...)
}

func clampCursor(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateLayout)
}

// renderMain renders the header, both list sections and the footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderList() string {
	styles := m.theme.Styles()

	if !m.snapshot.Hydrated {
		return styles.MutedText.Render("Loading list...")
	}
	if len(m.rows) == 0 {
		return "\n" + styles.FaintText.Render(emptyHint) + "\n"
	}

	pendingCount := 0
	for _, row := range m.rows {
		if !row.OnCart {
			pendingCount++
		}
	}

	var lines []string
	cursorLine := 0
	addRows := func(from, to int) {
		for idx := from; idx < to; idx++ {
			if idx == m.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderRow(idx, styles))
		}
	}
	if pendingCount > 0 {
		lines = append(lines, styles.Section.Render(sectionPending))
		addRows(0, pendingCount)
	}
	if pendingCount < len(m.rows) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.Section.Render(sectionOnCart))
		addRows(pendingCount, len(m.rows))
	}

	return strings.Join(scrollWindow(lines, cursorLine, m.height-4), "\n")
}

// scrollWindow returns at most height lines, keeping line cursor visible.
func scrollWindow(lines []string, cursor, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := max(cursor-height+1, 0)
	end := min(start+height, len(lines))
	return lines[start:end]
}

func (m Model) renderRow(idx int, styles Styles) string {
	row := m.rows[idx]

	check := "[ ]"
	nameStyle := styles.Text
	if row.OnCart {
		check = "[x]"
		nameStyle = styles.OnCart
	}

	date := formatDate(row.CreatedAt, m.loc)
	nameWidth := m.width - lipgloss.Width(check) - lipgloss.Width(date) - 6
	name := truncate(row.Name, nameWidth)
	gap := max(m.width-lipgloss.Width(check)-lipgloss.Width(name)-lipgloss.Width(date)-4, 1)

	if idx == m.cursor {
		line := fmt.Sprintf(" %s %s%s%s ", check, name, strings.Repeat(" ", gap), date)
		return styles.Selected.Width(m.width).Render(line)
	}
	return " " + styles.AccentText.Render(check) + " " +
		nameStyle.Render(name) + strings.Repeat(" ", gap) +
		styles.FaintText.Render(date)
}
