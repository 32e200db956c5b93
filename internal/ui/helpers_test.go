package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s"},
		{"minutes", 61, "1m"},
		{"hours", 2*60*60 + 10, "2h"},
		{"days", 3 * 24 * 60 * 60, "3d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(time.Duration(tc.in) * time.Second)
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  Milk  ", 10, "Milk"},
		{"Oat milk", 0, "Oat milk"},
		{"Oat milk", 3, "Oat"},
		{"Sourdough bread", 8, "Sourd..."},
		{"Crème fraîche", 6, "Crè..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	if got := pluralize(1, "failure", "failures"); got != "1 failure" {
		t.Fatalf("pluralize(1) = %q, want %q", got, "1 failure")
	}
	if got := pluralize(3, "failure", "failures"); got != "3 failures" {
		t.Fatalf("pluralize(3) = %q, want %q", got, "3 failures")
	}
}

func TestScrollWindow(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}

	if got := scrollWindow(lines, 4, 10); len(got) != 5 {
		t.Fatalf("scrollWindow short list = %v, want all lines", got)
	}
	got := scrollWindow(lines, 4, 2)
	if len(got) != 2 || got[0] != "d" || got[1] != "e" {
		t.Fatalf("scrollWindow(cursor=4, h=2) = %v, want [d e]", got)
	}
	got = scrollWindow(lines, 0, 2)
	if len(got) != 2 || got[0] != "a" {
		t.Fatalf("scrollWindow(cursor=0, h=2) = %v, want [a b]", got)
	}
}

func TestClampCursor(t *testing.T) {
	cases := []struct{ cursor, n, want int }{
		{0, 0, 0},
		{3, 0, 0},
		{-1, 4, 0},
		{2, 4, 2},
		{9, 4, 3},
	}
	for _, tc := range cases {
		if got := clampCursor(tc.cursor, tc.n); got != tc.want {
			t.Fatalf("clampCursor(%d, %d) = %d, want %d", tc.cursor, tc.n, got, tc.want)
		}
	}
}
