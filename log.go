package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ront3t/beers-table/internal/config"
)

func newFileLogger() (*slog.Logger, error) {
	logFile := os.Getenv("BEERTOK_LOG_FILE")
	if logFile == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, fmt.Errorf("determine home directory: %w", err)
		}
		logFile = filepath.Join(dir, "beertok.log")
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	logger.Debug("initialized text file logger",
		"path", logFile,
		"level", level.String(),
	)
	return logger, nil
}
