package ui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ront3t/beers-table/internal/loader"
)

func fetchPage(client Fetcher, req loader.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		beers, err := client.FetchPage(ctx, req.Category, req.Limit, req.Offset)
		slog.Debug("fetched page",
			"category", req.Category,
			"limit", req.Limit,
			"offset", req.Offset,
			"count", len(beers),
			"elapsed", time.Since(start),
			"error", err,
		)
		return pageLoadedMsg{req: req, beers: beers, err: err}
	}
}

func clearMsg(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearMsgMsg{seq: seq}
	})
}
