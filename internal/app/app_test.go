package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/shoplist/internal/prefs"
	"github.com/five82/shoplist/internal/ui"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpen_DataPathOverridesConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configured := filepath.Join(t.TempDir(), "configured.toml")
	override := filepath.Join(t.TempDir(), "override.toml")
	cfgPath := writeConfig(t, `data_file = "`+configured+`"`)

	e, err := open(context.Background(), Options{ConfigPath: cfgPath, DataPath: override, WatchEvery: 7})
	if err != nil {
		t.Fatalf("open returned error: %v", err)
	}
	defer e.close()

	if e.store.Path() != override {
		t.Fatalf("store path = %q, want %q", e.store.Path(), override)
	}
	if got := e.cfg.WatchInterval.Seconds(); got != 7 {
		t.Fatalf("WatchInterval = %vs, want 7s", got)
	}
}

func TestOpen_InvalidConfigFails(t *testing.T) {
	cfgPath := writeConfig(t, `data_file = [`)
	if _, err := open(context.Background(), Options{ConfigPath: cfgPath}); err == nil {
		t.Fatalf("open returned nil error, want config error")
	}
}

func TestThemeName_StoredPreferenceWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	data := filepath.Join(t.TempDir(), "prefs.toml")
	cfgPath := writeConfig(t, `theme = "Slate"`)

	e, err := open(context.Background(), Options{ConfigPath: cfgPath, DataPath: data})
	if err != nil {
		t.Fatalf("open returned error: %v", err)
	}
	defer e.close()

	ctx := context.Background()
	if got := e.themeName(ctx); got != "Slate" {
		t.Fatalf("themeName = %q, want configured Slate", got)
	}

	if err := e.store.Edit(ctx, func(p prefs.Prefs) { p[ui.ThemeKey] = "Kanagawa" }); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if got := e.themeName(ctx); got != "Kanagawa" {
		t.Fatalf("themeName = %q, want stored Kanagawa", got)
	}
}

func TestRunCommand_AddThenList(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	opts := Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		DataPath:   filepath.Join(t.TempDir(), "prefs.toml"),
	}
	ctx := context.Background()

	if code := RunCommand(ctx, opts, []string{"add", "Milk"}); code != 0 {
		t.Fatalf("add exit = %d, want 0", code)
	}
	if code := RunCommand(ctx, opts, []string{"ls"}); code != 0 {
		t.Fatalf("ls exit = %d, want 0", code)
	}
	if code := RunCommand(ctx, opts, []string{"done", "5"}); code != 2 {
		t.Fatalf("done exit = %d, want 2", code)
	}
}

func TestRunCommand_HelpSkipsStorage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	data := filepath.Join(t.TempDir(), "nested", "prefs.toml")
	opts := Options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml"), DataPath: data}

	if code := RunCommand(context.Background(), opts, []string{"help"}); code != 0 {
		t.Fatalf("help exit = %d, want 0", code)
	}
	if _, err := os.Stat(filepath.Dir(data)); !os.IsNotExist(err) {
		t.Fatalf("data directory created for help: %v", err)
	}
}

// closeRecorder notes whether the env was already closed when it was closed.
type closeRecorder struct {
	e          *env
	afterStore bool
	afterList  bool
	calls      int
}

func (c *closeRecorder) Close() error {
	c.calls++
	_, err := c.e.store.Load(context.Background())
	c.afterStore = errors.Is(err, prefs.ErrClosed)
	select {
	case <-c.e.manager.Done():
		c.afterList = true
	default:
	}
	return nil
}

func TestShutdown_ClosesLogLast(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	e, err := open(context.Background(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		DataPath:   filepath.Join(t.TempDir(), "prefs.toml"),
	})
	if err != nil {
		t.Fatalf("open returned error: %v", err)
	}

	rec := &closeRecorder{e: e}
	e.shutdown(rec)

	if rec.calls != 1 {
		t.Fatalf("log Close calls = %d, want 1", rec.calls)
	}
	if !rec.afterStore || !rec.afterList {
		t.Fatalf("log closed before env: store closed %v, manager done %v", rec.afterStore, rec.afterList)
	}
}
