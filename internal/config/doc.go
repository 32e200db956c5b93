// Package config loads the shoplist TOML configuration.
//
// # Configuration Discovery
//
// Load uses the given path, or ~/.config/shoplist/config.toml when the path is
// blank. A missing file is not an error; Default values are returned instead.
// Fields left empty in the file also keep their defaults.
//
// # Default Values
//
//   - Data file: ~/.local/share/shoplist/prefs.toml
//   - Log file: ~/.local/state/shoplist/shoplist.log
//   - Watch interval: 2 seconds
//   - Theme: empty (the stored theme preference or the first built-in theme)
//
// # TOML Format
//
//	data_file = "~/Dropbox/shoplist/prefs.toml"
//	log_file = "~/.cache/shoplist.log"
//	theme = "Slate"
//	watch_interval = 5
//
// Paths are trimmed and tilde-expanded. watch_interval is in seconds and may
// be fractional; a negative value is rejected.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and invalid TOML. Parse failures mention "parse config".
package config
