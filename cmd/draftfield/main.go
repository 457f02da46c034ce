// cmd/draftfield/main.go
//
// This is the entry point for the draftfield CLI.
//
// Flow:
// 1. Resolve the project directory and create .draftfield/ if needed
// 2. Load config.yaml and open the log files
// 3. Run the form TUI until the user quits

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/draftfield/internal/cache"
	"github.com/kingrea/draftfield/internal/config"
	"github.com/kingrea/draftfield/internal/logbook"
	"github.com/kingrea/draftfield/internal/logging"
	"github.com/kingrea/draftfield/internal/state"
	"github.com/kingrea/draftfield/internal/tui"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}
	projectDir := config.ResolveProjectDir(cwd)

	if err := config.InitDir(projectDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s directory: %v\n", config.Dir, err)
		os.Exit(1)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	book, err := logbook.New(cfg.JournalPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening commit journal: %v\n", err)
		os.Exit(1)
	}
	book.Info("session opened · %d fields", len(cfg.Descriptors()))

	store, err := cache.Open(cfg.CacheDir(), cache.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cfg,
		tui.WithCache(store),
		tui.WithLogger(logger),
		tui.WithLogbook(book),
		tui.WithStateManager(state.NewManager(state.WithLogger(logger))),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting form: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Printf("tui exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
