// Command forecast resolves a location once and prints its daily forecast.
// Without -location it uses the location stored by the last run or by the
// service, which shares the same STORE_PATH.
//
// Usage:
//
//	go run ./cmd/forecast -location "Lisbon"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rodferprod/classy-weather/internal/app"
	"github.com/rodferprod/classy-weather/internal/config"
	"github.com/rodferprod/classy-weather/internal/observability"
	"github.com/rodferprod/classy-weather/internal/render"
)

func main() {
	location := flag.String("location", "", "location to look up (default: the stored location)")
	timeout := flag.Duration("timeout", 30*time.Second, "give up waiting for the forecast after this long")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, *location, *timeout, *verbose, os.Stdout, os.Stderr))
}

func run(ctx context.Context, location string, timeout time.Duration, verbose bool, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	a, err := app.New(ctx, cfg, logger, observability.NewUnregisteredMetrics())
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		a.Close(closeCtx)
	}()

	if location != "" {
		a.Pipeline.SetLocation(ctx, location)
	} else if err := a.Pipeline.Restore(ctx); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := a.Pipeline.WaitContext(waitCtx); err != nil {
		fmt.Fprintf(stderr, "waiting for forecast: %v\n", err)
		return 1
	}

	state := a.Pipeline.State()
	if state.Forecast.IsEmpty() {
		fmt.Fprintf(stderr, "no forecast for %q\n", state.Location)
		return 1
	}
	if err := render.Text(stdout, state); err != nil {
		fmt.Fprintf(stderr, "write: %v\n", err)
		return 1
	}
	return 0
}
