package ui

import (
	"fmt"
	"strings"

	"github.com/five82/shoplist/internal/item"
)

// renderHeader renders the status bar: title, counts and save state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("shoplist", styles.Logo)}

	if !m.snapshot.Hydrated {
		parts = append(parts, bg.Render("loading...", styles.MutedText))
		return bg.FillLine(strings.Join(parts, sep), m.width)
	}

	onCart := countOnCart(m.rows)
	parts = append(parts,
		bg.Render(fmt.Sprintf("%d to buy", len(m.rows)-onCart), styles.Text),
		bg.Render(fmt.Sprintf("%d on cart", onCart), styles.MutedText),
	)
	parts = append(parts, m.saveState(styles, bg))

	return bg.FillLine(strings.Join(parts, sep), m.width)
}

func (m Model) saveState(styles Styles, bg BgStyle) string {
	snap := m.snapshot
	switch {
	case snap.IsDegraded():
		return bg.Render("! not saving ("+pluralize(snap.ConsecutiveFailures, "failure", "failures")+")", styles.DangerText)
	case snap.ConsecutiveFailures > 0:
		return bg.Render("! last save failed", styles.WarningText)
	case !snap.LastUpdated.IsZero():
		age := humanizeDuration(m.now().Sub(snap.LastUpdated))
		if age == "now" {
			return bg.Render("updated just now", styles.FaintText)
		}
		return bg.Render("updated "+age+" ago", styles.FaintText)
	default:
		return ""
	}
}

func countOnCart(rows []item.Item) int {
	n := 0
	for _, row := range rows {
		if row.OnCart {
			n++
		}
	}
	return n
}
