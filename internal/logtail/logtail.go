package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Tail returns the last n lines of the log at path, or every line when n <= 0.
// A missing log yields no lines and no error.
func Tail(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		// Compact once the window has doubled so memory stays O(n).
		if n > 0 && len(lines) >= 2*n {
			lines = append(lines[:0], lines[len(lines)-n:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// Entry is one log line split at its timestamp.
type Entry struct {
	Stamp   string // empty when the line has no standard logger timestamp
	Message string
}

// "shoplist 2026/10/19 14:32:15 message", prefix optional.
var linePattern = regexp.MustCompile(`^(?:\S+ )?(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) (.*)$`)

// Parse splits a line written by the standard logger. Lines in any other
// shape come back whole as the message.
func Parse(line string) Entry {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{Message: line}
	}
	return Entry{Stamp: m[1], Message: m[2]}
}
