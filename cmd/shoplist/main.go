package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/shoplist/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	dataPath := flag.String("data", "", "override the data file holding the list (optional)")
	watchSeconds := flag.Int("watch", 0, "seconds between checks for changes made elsewhere (optional, defaults to 2s)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		DataPath:   *dataPath,
		WatchEvery: *watchSeconds,
	}

	if args := flag.Args(); len(args) > 0 {
		return app.RunCommand(ctx, opts, args)
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "shoplist: %v\n", err)
		return 1
	}
	return 0
}
