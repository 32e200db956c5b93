package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/shoplist/internal/cli"
	"github.com/five82/shoplist/internal/config"
	"github.com/five82/shoplist/internal/prefs"
	"github.com/five82/shoplist/internal/repository"
	"github.com/five82/shoplist/internal/shopping"
	"github.com/five82/shoplist/internal/ui"
)

// Options configure the shoplist application.
type Options struct {
	ConfigPath string
	DataPath   string // empty uses the config value
	WatchEvery int    // seconds; zero uses the config value
}

// env holds the components shared by the TUI and the subcommands.
type env struct {
	cfg     config.Config
	store   *prefs.Store
	repo    *repository.Prefs
	manager *shopping.Manager
}

func open(ctx context.Context, opts Options) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg, err = cfg.WithDataFile(opts.DataPath); err != nil {
		return nil, fmt.Errorf("data path: %w", err)
	}
	if opts.WatchEvery > 0 {
		cfg.WatchInterval = time.Duration(opts.WatchEvery) * time.Second
	}

	store, err := prefs.Open(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	repo := repository.New(store)

	return &env{
		cfg:     cfg,
		store:   store,
		repo:    repo,
		manager: shopping.New(ctx, repo),
	}, nil
}

func (e *env) close() {
	e.manager.Close()
	if err := e.store.Close(); err != nil {
		log.Printf("close data file: %v", err)
	}
}

// shutdown closes the environment and only then the log file, so anything
// logged while closing still lands in the file.
func (e *env) shutdown(logFile io.Closer) {
	e.close()
	if logFile == nil {
		return
	}
	log.SetOutput(os.Stderr)
	if err := logFile.Close(); err != nil {
		log.Printf("close log file: %v", err)
	}
}

// themeName prefers the theme last chosen in the UI over the configured one.
func (e *env) themeName(ctx context.Context) string {
	p, err := e.store.Load(ctx)
	if err != nil {
		log.Printf("load preferences: %v", err)
		return e.cfg.Theme
	}
	if name, ok := p.Get(ui.ThemeKey); ok && name != "" {
		return name
	}
	return e.cfg.Theme
}

// Run boots the shoplist TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	e, err := open(ctx, opts)
	if err != nil {
		return err
	}

	var logFile io.Closer
	if f, err := openLog(e.cfg.LogFile); err != nil {
		log.Printf("log file unavailable, logging to stderr: %v", err)
	} else {
		logFile = f
	}
	defer e.shutdown(logFile)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// Pick up edits made by other shoplist processes.
	g.Go(func() error {
		e.store.Watch(gctx, e.cfg.WatchInterval)
		return nil
	})

	g.Go(func() error {
		defer cancel()
		return ui.Run(ui.Options{
			Context:   gctx,
			List:      e.manager,
			Prefs:     e.store,
			ThemeName: e.themeName(gctx),
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer flushCancel()
	if err := e.manager.Flush(flushCtx); err != nil {
		log.Printf("final save: %v", err)
	}
	return nil
}

// RunCommand executes one non-interactive subcommand and returns its exit code.
func RunCommand(ctx context.Context, opts Options, args []string) int {
	if len(args) == 0 || !cli.NeedsList(args[0]) {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "shoplist: load config: %v\n", err)
			return 1
		}
		return cli.Run(ctx, args, cli.Options{LogFile: cfg.LogFile})
	}

	e, err := open(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shoplist: %v\n", err)
		return 1
	}
	defer e.close()

	return cli.Run(ctx, args, cli.Options{
		List:    e.manager,
		Store:   e.repo,
		LogFile: e.cfg.LogFile,
	})
}

// openLog sends the standard logger to path so log lines do not draw over
// the alternate screen.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return tea.LogToFile(path, "shoplist")
}
