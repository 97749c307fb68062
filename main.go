package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ront3t/beers-table/internal/config"
	"github.com/ront3t/beers-table/internal/ui"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Fix or remove ~/.config/beertok/config.yml, for example:")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "api_url: http://localhost:8081")
		fmt.Fprintln(os.Stderr, "page_size: 10")
		fmt.Fprintln(os.Stderr, "categories: [ale, stouts]")
		os.Exit(1)
	}

	logger, err := newFileLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: cannot initialize logger: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	slog.Info("starting beertok",
		"version", ui.Version,
		"api_url", cfg.APIURL,
		"category", cfg.DefaultCategory,
		"page_size", cfg.PageSize,
	)

	app := ui.NewApp(cfg)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: run: %v\n", err)
		os.Exit(1)
	}
}
