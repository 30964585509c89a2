package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/plusultra/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/plusultra/config.toml)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	pollSeconds := flag.Int("poll", 0, "background refresh interval in seconds (optional, defaults to the config value)")
	tailLog := flag.Int("tail-log", 0, "print the last N log lines and exit")
	tailLevel := flag.String("tail-level", "", "with -tail-log, only show events at or above this level")
	flag.Parse()

	if n := *tailLog; n > 0 {
		if err := app.TailLog(os.Stdout, *configPath, n, *tailLevel); err != nil {
			fmt.Fprintf(os.Stderr, "plusultra: %v\n", err)
			return 1
		}
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, PrefsPath: *prefsPath}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "plusultra: %v\n", err)
		return 1
	}
	return 0
}
