package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/shoplist/internal/item"
	"github.com/five82/shoplist/internal/prefs"
	"github.com/five82/shoplist/internal/repository"
	"github.com/five82/shoplist/internal/shopping"
)

type harness struct {
	path   string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{path: filepath.Join(t.TempDir(), "prefs.toml")}
}

// run executes one subcommand against a fresh store and manager, the way
// separate shoplist invocations would.
func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	store, err := prefs.Open(h.path)
	if err != nil {
		t.Fatalf("prefs.Open returned error: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo := repository.New(store)
	mgr := shopping.New(ctx, repo)
	defer mgr.Close()

	return Run(ctx, args, Options{
		List:     mgr,
		Store:    repo,
		Stdout:   &h.stdout,
		Stderr:   &h.stderr,
		Location: time.UTC,
	})
}

func (h *harness) stored(t *testing.T) []item.Item {
	t.Helper()
	store, err := prefs.Open(h.path)
	if err != nil {
		t.Fatalf("prefs.Open returned error: %v", err)
	}
	defer store.Close()
	p, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	raw, ok := p.Get(repository.Key)
	if !ok {
		return nil
	}
	items, err := item.Decode(raw)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	return items
}

func names(items []item.Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
		if it.OnCart {
			out[i] += "*"
		}
	}
	return strings.Join(out, ",")
}

func TestRun_NoArgsIsUsage(t *testing.T) {
	h := newHarness(t)
	if code := h.run(t); code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
	if !strings.Contains(h.stderr.String(), "Usage:") {
		t.Fatalf("stderr = %q, want usage text", h.stderr.String())
	}
}

func TestRun_HelpIsOK(t *testing.T) {
	h := newHarness(t)
	if code := h.run(t, "help"); code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(h.stdout.String(), "rename <n> <name...>") {
		t.Fatalf("stdout = %q, want subcommand list", h.stdout.String())
	}
}

func TestRun_UnknownSubcommand(t *testing.T) {
	h := newHarness(t)
	if code := h.run(t, "frobnicate"); code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
	if !strings.Contains(h.stderr.String(), "unknown subcommand: frobnicate") {
		t.Fatalf("stderr = %q, want unknown subcommand message", h.stderr.String())
	}
}

func TestRun_AddListToggleRenameRemove(t *testing.T) {
	h := newHarness(t)

	if code := h.run(t, "add", "Oat", "milk"); code != 0 {
		t.Fatalf("add exit = %d, stderr %q", code, h.stderr.String())
	}
	if code := h.run(t, "add", "Eggs"); code != 0 {
		t.Fatalf("add exit = %d, stderr %q", code, h.stderr.String())
	}
	if got := names(h.stored(t)); got != "Oat milk,Eggs" {
		t.Fatalf("stored = %q, want %q", got, "Oat milk,Eggs")
	}

	if code := h.run(t, "done", "1"); code != 0 {
		t.Fatalf("done exit = %d, stderr %q", code, h.stderr.String())
	}
	if got := names(h.stored(t)); got != "Oat milk*,Eggs" {
		t.Fatalf("stored = %q, want %q", got, "Oat milk*,Eggs")
	}

	// ls lists pending first, so Eggs is now number 1.
	if code := h.run(t, "ls"); code != 0 {
		t.Fatalf("ls exit = %d", code)
	}
	out := h.stdout.String()
	for _, want := range []string{"1 to buy", "1 on cart", "1. [ ] Eggs", "On Cart", "2. [x] Oat milk"} {
		if !strings.Contains(out, want) {
			t.Fatalf("ls output missing %q:\n%s", want, out)
		}
	}

	if code := h.run(t, "rename", "1", "Free", "range", "eggs"); code != 0 {
		t.Fatalf("rename exit = %d, stderr %q", code, h.stderr.String())
	}
	if got := names(h.stored(t)); got != "Oat milk*,Free range eggs" {
		t.Fatalf("stored = %q, want %q", got, "Oat milk*,Free range eggs")
	}

	if code := h.run(t, "rm", "2"); code != 0 {
		t.Fatalf("rm exit = %d, stderr %q", code, h.stderr.String())
	}
	if got := names(h.stored(t)); got != "Free range eggs" {
		t.Fatalf("stored = %q, want %q", got, "Free range eggs")
	}
}

func TestRun_ListEmpty(t *testing.T) {
	h := newHarness(t)
	if code := h.run(t, "ls"); code != 0 {
		t.Fatalf("ls exit = %d", code)
	}
	if !strings.Contains(h.stdout.String(), "Your list is empty") {
		t.Fatalf("stdout = %q, want empty hint", h.stdout.String())
	}
}

func TestRun_Clear(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "Milk")
	h.run(t, "add", "Bread")

	if code := h.run(t, "clear"); code != 0 {
		t.Fatalf("clear exit = %d, stderr %q", code, h.stderr.String())
	}
	if got := h.stored(t); len(got) != 0 {
		t.Fatalf("stored = %q after clear, want empty", names(got))
	}
}

func TestRun_UsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"add without name", []string{"add"}, "usage: shoplist add"},
		{"blank name", []string{"add", "  "}, "add: empty name"},
		{"done without index", []string{"done"}, "usage: shoplist done"},
		{"rm not a number", []string{"rm", "two"}, "rm: not a number: two"},
		{"rename missing name", []string{"rename", "1"}, "usage: shoplist rename"},
		{"done out of range", []string{"done", "3"}, "index out of range: have 0, got 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			if code := h.run(t, tc.args...); code != 2 {
				t.Fatalf("exit = %d, want 2", code)
			}
			if !strings.Contains(h.stderr.String(), tc.want) {
				t.Fatalf("stderr = %q, want it to contain %q", h.stderr.String(), tc.want)
			}
		})
	}
}

func TestRun_RenameToBlankRejected(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "Milk")

	if code := h.run(t, "rename", "1", " "); code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
	if got := names(h.stored(t)); got != "Milk" {
		t.Fatalf("stored = %q, want Milk", got)
	}
}

func TestNeedsList(t *testing.T) {
	for _, name := range []string{"add", "ls", "done", "rm", "rename", "clear"} {
		if !NeedsList(name) {
			t.Fatalf("NeedsList(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"help", "log", "tui"} {
		if NeedsList(name) {
			t.Fatalf("NeedsList(%q) = true, want false", name)
		}
	}
}

func TestRun_LogShowsTail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "shoplist.log")
	body := "shoplist 2026/10/19 09:00:00 first\n" +
		"shoplist 2026/10/19 09:00:01 save list: disk full\n" +
		"shoplist 2026/10/19 09:00:02 observe list: retry in 2s\n"
	if err := os.WriteFile(logPath, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"log", "2"}, Options{
		Stdout:  &stdout,
		Stderr:  &stderr,
		LogFile: logPath,
	})
	if code != 0 {
		t.Fatalf("exit = %d, stderr %q", code, stderr.String())
	}
	out := stdout.String()
	if strings.Contains(out, "first") {
		t.Fatalf("stdout = %q, want only the last 2 lines", out)
	}
	for _, want := range []string{"save list: disk full", "2026/10/19 09:00:02", "observe list: retry in 2s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_LogMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"log"}, Options{
		Stdout:  &stdout,
		Stderr:  &stderr,
		LogFile: filepath.Join(t.TempDir(), "none.log"),
	})
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "No log entries") {
		t.Fatalf("stdout = %q, want no-entries message", stdout.String())
	}
}

func TestRun_LogBadCount(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"log", "lots"}, Options{Stdout: &stdout, Stderr: &stderr, LogFile: "x"})
	if code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "log: not a number: lots") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}
