// Package app wires configuration, storage, the shopping list manager and
// the user interface together. It is the composition root of shoplist.
//
// # Startup
//
//  1. config.Load reads ~/.config/shoplist/config.toml (or -config); the
//     -data and -watch flags override the file.
//  2. prefs.Open prepares the preferences file that holds the list.
//  3. repository.New exposes the list slot; shopping.New starts the manager,
//     which loads the stored list before running any command.
//  4. Run starts the TUI. RunCommand runs one subcommand instead.
//
// # Background Work
//
// While the TUI runs, an errgroup keeps two goroutines alive:
//
//   - prefs.Store.Watch polls the file and broadcasts edits made by other
//     shoplist processes, which reach the manager as storage emissions.
//   - ui.Run drives the Bubble Tea program. Quitting it cancels the watcher.
//
// Before returning, Run waits briefly for queued saves so the last change is
// on disk. RunCommand relies on the subcommands doing the same.
//
// # Logging
//
// The standard logger is redirected to the configured log file with
// tea.LogToFile while the TUI owns the terminal. Subcommands log to stderr.
package app
