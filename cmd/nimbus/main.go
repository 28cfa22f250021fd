package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/nimbus/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "nimbus: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "nimbus: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags maps command-line flags onto app.Options. Empty paths and a
// zero interval fall through to the app defaults.
func parseFlags(args []string, out io.Writer) (app.Options, error) {
	var opts app.Options
	fs := flag.NewFlagSet("nimbus", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/nimbus/config.toml)")
	fs.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/nimbus/prefs.toml)")
	fs.StringVar(&opts.EnvFile, "env", "", ".env file read before the environment (default ./.env)")
	fs.IntVar(&opts.PollEvery, "poll", 0, "refresh interval in seconds (default 300)")
	if err := fs.Parse(args); err != nil {
		return app.Options{}, err
	}
	if fs.NArg() > 0 {
		return app.Options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if opts.PollEvery < 0 {
		return app.Options{}, fmt.Errorf("-poll must be positive, got %d", opts.PollEvery)
	}
	return opts, nil
}
