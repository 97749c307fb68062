// Package server exposes the beer pagination proxy over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ront3t/beers-table/internal/types"
	"github.com/ront3t/beers-table/internal/upstream"
)

const (
	defaultLimit  = 10
	defaultOffset = 0

	errFetchMessage = "Error fetching beers"
)

// Options configures the HTTP surface.
type Options struct {
	Logger      *slog.Logger
	SourceName  string // metrics label, e.g. "http" or "db"
	Timeout     time.Duration
	CORSOrigins []string
	Registry    *prometheus.Registry // nil uses the default registry
}

// Server routes beer window requests to a Source.
type Server struct {
	source  upstream.Source
	log     *slog.Logger
	name    string
	timeout time.Duration
	metrics *Metrics
}

// New builds the gin engine serving the proxy.
func New(source upstream.Source, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SourceName == "" {
		opts.SourceName = "http"
	}

	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		reg, gatherer = opts.Registry, opts.Registry
	}

	s := &Server{
		source:  source,
		log:     opts.Logger,
		name:    opts.SourceName,
		timeout: opts.Timeout,
		metrics: NewMetrics(reg, ""),
	}

	r := gin.New()
	r.Use(RequestID(), Logger(opts.Logger), Recovery(opts.Logger), s.metrics.Middleware())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/beers/:type", s.getBeers)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// windowResponse is the success payload. Elements are written back exactly
// as the source returned them.
type windowResponse struct {
	Beers []json.RawMessage `json:"beers"`
}

// getBeers serves GET /beers/:type?limit=&offset=.
func (s *Server) getBeers(c *gin.Context) {
	category := c.Param("type")
	w := parseWindow(c.Query("limit"), c.Query("offset"))

	ctx := c.Request.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	beers, err := s.source.Window(ctx, category, w)
	s.metrics.observeFetch(s.name, start, err, len(beers))
	if err != nil {
		s.log.ErrorContext(ctx, "fetch beers window",
			"request_id", GetRequestID(c),
			"category", category,
			"limit", w.Limit,
			"offset", w.Offset,
			"timeout", errors.Is(err, context.DeadlineExceeded),
			"error", err,
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Message: errFetchMessage})
		return
	}
	if beers == nil {
		beers = []json.RawMessage{}
	}
	// PureJSON leaves <, > and & inside elements unescaped
	c.PureJSON(http.StatusOK, windowResponse{Beers: beers})
}

// parseWindow reads limit and offset, falling back to the defaults for
// missing, malformed or negative values.
func parseWindow(limit, offset string) upstream.Window {
	return upstream.Window{
		Limit:  parseNonNegative(limit, defaultLimit),
		Offset: parseNonNegative(offset, defaultOffset),
	}
}

func parseNonNegative(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
