// Package ui provides the Bubble Tea terminal interface for shoplist.
//
// # Layout
//
// A one-line header shows the number of items still to buy, the number on
// the cart, and whether the last save succeeded. Below it the list is split
// into two sections, "Shopping List" for items not yet collected and
// "On Cart" for the rest, each row showing a checkbox, the name and the
// creation date. An empty list shows a hint instead. The footer holds the
// add/edit input line, the last status message and the short key help.
//
// # Data Flow
//
// The Model never mutates the list itself. Key presses become
// shopping.Command values handed to List.Submit inside Update, so commands
// reach the manager in keystroke order; the reply is awaited in a tea.Cmd.
// The rendered list comes only from snapshots delivered by List.Subscribe,
// and persistence faults from List.Failures appear in the footer.
//
// # Key Bindings
//
//   - a: Add an item (enter saves, esc cancels, blank names are rejected)
//   - e: Edit the selected item's name
//   - space/enter/x: Move the selected item to or from the cart
//   - d: Delete the selected item
//   - j/k, g/G: Move the selection
//   - T: Cycle theme (saved under the "theme" preference)
//   - ?: Toggle help
//   - q or Ctrl+C: Quit
package ui
