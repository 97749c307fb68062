package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ront3t/beers-table/internal/config"
	"github.com/ront3t/beers-table/internal/server"
	"github.com/ront3t/beers-table/internal/upstream"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	cfg, err := config.LoadServer()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, cleanup, err := buildSource(ctx, cfg)
	if err != nil {
		logger.Error("build source", "source", cfg.Source, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	router := server.New(source, server.Options{
		Logger:      logger,
		SourceName:  cfg.Source,
		Timeout:     cfg.UpstreamTimeout,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "source", cfg.Source, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// buildSource wires the configured window source, wrapping the HTTP source
// in the Redis cache when REDIS_URL is set.
func buildSource(ctx context.Context, cfg *config.ServerConfig) (upstream.Source, func(), error) {
	noop := func() {}

	if cfg.Source == config.SourceDB {
		db, err := upstream.OpenDB(cfg.DatabaseURL, cfg.Production())
		if err != nil {
			return nil, noop, err
		}
		src := upstream.NewDBSource(db)
		if err := src.Migrate(ctx); err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return src, closeDB, nil
	}

	httpSrc := upstream.NewHTTPSource(cfg.UpstreamURL, nil, cfg.UpstreamTimeout)
	if cfg.RedisURL == "" {
		return httpSrc, noop, nil
	}

	store, err := upstream.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		// the proxy still works uncached
		slog.Warn("redis unavailable, serving uncached", "error", err)
		return httpSrc, noop, nil
	}
	slog.Info("collection cache enabled", "ttl", cfg.CacheTTL)
	return upstream.NewCachedSource(httpSrc, store, cfg.CacheTTL), func() { _ = store.Close() }, nil
}

func logLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
