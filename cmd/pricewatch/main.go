package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/five82/pricewatch/internal/app"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/pricewatch/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional, defaults to ~/.config/pricewatch/prefs.toml)")
	pollSeconds := flag.Int("poll", 0, "price refresh interval in seconds (optional, defaults to 30s)")
	timeframe := flag.String("timeframe", "", "initial chart timeframe: 1d, 7d, 14d, 30d, 6mo or 1yr")
	once := flag.Bool("once", false, "fetch once, print the result as YAML and exit")
	flag.Parse()

	// A .env file is optional; PRICEWATCH_* variables in it feed the config.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "pricewatch: load .env: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Timeframe:  *timeframe,
		Version:    version,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	var err error
	if *once {
		err = app.RunOnce(ctx, opts, os.Stdout)
	} else {
		err = app.Run(ctx, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pricewatch: %v\n", err)
		return 1
	}
	return 0
}
