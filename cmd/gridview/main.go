package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/gridview/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/gridview/config.toml)")
	tablePath := flag.String("table", "", "table definition path (optional, overrides config)")
	sourceLoc := flag.String("source", "", "data source: JSON file, http(s) URL or SQLite database (optional, overrides config)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (optional, overrides config)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		TablePath:  *tablePath,
		Source:     *sourceLoc,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "gridview: %v\n", err)
		return 1
	}
	return 0
}
