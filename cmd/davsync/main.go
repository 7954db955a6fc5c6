// Package main is the entry point for the davsync application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/davsync/internal/config"
	"github.com/joe/davsync/internal/syncengine"
	"github.com/joe/davsync/internal/tui"
	"github.com/joe/davsync/internal/watch"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	engine := syncengine.NewEngine(nil, nil)
	defer engine.Close()

	if err := engine.Configure(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	interactive := !cfg.NoTUI && term.IsTerminal(int(os.Stdout.Fd()))

	if cfg.LogFile != "" {
		if err := engine.EnableFileLogging(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	} else if !interactive {
		engine.Logger().SetOutput(os.Stderr)
	}

	if err := syncOnce(engine, interactive); err != nil && !cfg.Watch {
		return 1
	}

	if !cfg.Watch {
		return 0
	}

	if cfg.LogFile == "" {
		engine.Logger().SetOutput(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := &watch.Watcher{
		Syncer:   engine,
		Dir:      cfg.LocalDir,
		Interval: cfg.Interval,
		Logger:   engine.Logger(),
		OnResult: func(result *syncengine.SyncResult, err error) {
			report(result, err)
		},
	}

	if err := watcher.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// syncOnce runs a single sync, in the TUI when a terminal is attached.
func syncOnce(engine *syncengine.Engine, interactive bool) error {
	if !interactive {
		result, err := engine.Sync()
		report(result, err)

		return err
	}

	program := tea.NewProgram(tui.NewAppModel(engine), tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	app, ok := final.(tui.AppModel)
	if !ok {
		return nil
	}

	// The alt screen is gone now; leave the outcome on the terminal.
	report(app.Result(), app.Err())

	return app.Err()
}

func report(result *syncengine.SyncResult, err error) {
	tui.WriteReport(os.Stdout, os.Stderr, result, err)
}
