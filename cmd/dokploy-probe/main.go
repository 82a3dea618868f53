package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/etdofresh/dokploy-probe/internal/app"
	"github.com/etdofresh/dokploy-probe/internal/config"
	"github.com/etdofresh/dokploy-probe/internal/logger"
)

var errInterrupted = errors.New("interrupted")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Stdout)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on w unless it is an interrupt, which run already printed.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, errInterrupted) {
		fmt.Fprintf(w, "\n\nprobe failed: %v\n", err)
	}
	return 1
}

func run(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("probe starting", "config", cfg.Redacted())

	probe, err := app.NewProbe(ctx, cfg, log, out)
	if err != nil {
		logger.ErrorObj("failed to initialize probe", "error", err)
		return err
	}

	if err := probe.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\n\nTest interrupted by user")
			return errInterrupted
		}
		return fmt.Errorf("probe run: %w", err)
	}

	return nil
}
