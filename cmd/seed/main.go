// Command seed mirrors upstream beer collections into Postgres so the proxy
// can serve windows with SOURCE=db.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ront3t/beers-table/internal/config"
	"github.com/ront3t/beers-table/internal/types"
	"github.com/ront3t/beers-table/internal/upstream"
)

func main() {
	categories := flag.String("categories", types.CategoryAle+","+types.CategoryStouts, "comma separated categories to mirror")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(context.Background(), strings.Split(*categories, ",")); err != nil {
		logger.Error("seed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, categories []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	db, err := upstream.OpenDB(cfg.DatabaseURL, cfg.Production())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	dst := upstream.NewDBSource(db)
	if err := dst.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	src := upstream.NewHTTPSource(cfg.UpstreamURL, nil, cfg.UpstreamTimeout)
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		start := time.Now()
		beers, err := src.Collection(ctx, c)
		if err != nil {
			return fmt.Errorf("fetch %q: %w", c, err)
		}
		if err := dst.ReplaceCategory(ctx, c, beers); err != nil {
			return err
		}
		slog.Info("mirrored category", "category", c, "rows", len(beers), "elapsed", time.Since(start))
	}
	return nil
}
