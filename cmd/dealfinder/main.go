package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/config"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/di"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/env"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/userinteraction"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/finder"

	"github.com/fatih/color"
)

func main() {
	if err := run(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}
}

// run holds every deferred cleanup, so Chrome is released on all exit paths
// before main exits.
func run() error {
	cfg, err := config.Load(env.NewEnvService())
	if err != nil {
		return err
	}

	query, err := userinteraction.NewConsoleUserInteraction(nil).AskQuery(context.Background())
	if err != nil {
		return err
	}
	if query == "" {
		return finder.ErrEmptyQuery
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	container, err := di.NewContainer(ctx, cfg, query)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer func() {
		if cerr := container.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "cleanup: %v\n", cerr)
		}
	}()

	container.Logger.Info("Run started", "query", query, "runID", container.RunID)

	if _, err := container.Finder.Find(ctx, query); err != nil {
		container.Logger.Error("Run failed", "error", err)
		return err
	}

	container.Logger.Info("Run finished")
	return nil
}
