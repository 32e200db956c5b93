// Package logtail reads the end of the shoplist log file.
//
// The TUI sends the standard logger to a file so log output does not draw
// over the list. `shoplist log` uses Tail to show recent lines and Parse to
// dim the timestamps:
//
//	lines, err := logtail.Tail(cfg.LogFile, 50)
//	for _, line := range lines {
//		e := logtail.Parse(line)
//		fmt.Println(e.Stamp, e.Message)
//	}
//
// Tail scans the file once and keeps at most 2n lines in memory. A log that
// does not exist yet is not an error; it simply has no lines.
package logtail
