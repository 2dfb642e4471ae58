package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/shelf/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/shelf/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional, defaults to ~/.config/shelf/prefs.toml)")
	offline := flag.Bool("offline", false, "never contact the store API; serve cached data only")
	pollSeconds := flag.Int("poll", 0, "background refresh interval in seconds (optional, defaults to poll_interval)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Offline:    *offline,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		return 1
	}
	return 0
}
