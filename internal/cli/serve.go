package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pentagrid/pkg/buildinfo"
	"github.com/matzehuels/pentagrid/pkg/cache"
	perrors "github.com/matzehuels/pentagrid/pkg/errors"
	"github.com/matzehuels/pentagrid/pkg/observability"
	"github.com/matzehuels/pentagrid/pkg/pentagrid"
	"github.com/matzehuels/pentagrid/pkg/pipeline"
)

const (
	defaultAddr      = ":8080"
	defaultKeyPrefix = "pentagrid:v1:"
	defaultMaxSide   = 4096.0
	requestTimeout   = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// serveCommand creates the serve command that exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		sc      ServerConfig
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tilings over HTTP",
		Long: `Serve tilings over HTTP.

Endpoints:
  GET /tiling.{svg,png,pdf,json}   render a tiling; query parameters mirror
                                   the render flags (seed, families, width,
                                   height, spacing, line_range, cull_scale,
                                   palette, stroke_width, scale, transparent)
  GET /healthz                     liveness check
  GET /metrics                     Prometheus metrics

Artifacts are cached in redis when --redis-url is set, otherwise in the
local cache directory.`,
		Example: `  pentagrid serve --addr :8080
  curl 'localhost:8080/tiling.svg?seed=7&families=7&palette=spectrum'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			override(cmd, "addr", &sc.Addr, cfg.Server.Addr)
			override(cmd, "redis-url", &sc.RedisURL, cfg.Server.RedisURL)
			override(cmd, "key-prefix", &sc.KeyPrefix, cfg.Server.KeyPrefix)
			override(cmd, "max-width", &sc.MaxWidth, cfg.Server.MaxWidth)
			override(cmd, "max-height", &sc.MaxHeight, cfg.Server.MaxHeight)

			defaults := pipeline.Options{}
			applyConfig(cmd, cfg, &defaults, nil)
			defaults.Palette = cfg.Render.Palette
			defaults.StrokeWidth = cfg.Render.StrokeWidth
			defaults.Scale = cfg.Render.Scale
			defaults.Transparent = cfg.Render.Transparent

			return c.runServe(cmd.Context(), sc, defaults, noCache)
		},
	}

	cmd.Flags().StringVar(&sc.Addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&sc.RedisURL, "redis-url", "", "redis URL for the shared artifact cache")
	cmd.Flags().StringVar(&sc.KeyPrefix, "key-prefix", defaultKeyPrefix, "prefix for redis cache keys")
	cmd.Flags().Float64Var(&sc.MaxWidth, "max-width", defaultMaxSide, "largest accepted viewport width")
	cmd.Flags().Float64Var(&sc.MaxHeight, "max-height", defaultMaxSide, "largest accepted viewport height")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, sc ServerConfig, defaults pipeline.Options, noCache bool) error {
	runner, err := c.newServerRunner(ctx, sc, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	s := newServer(runner, c.Logger, sc, defaults)
	s.installHooks()
	defer observability.Reset()

	srv := &http.Server{
		Addr:              sc.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(sc.Addr)))
	printNextStep("Try", fmt.Sprintf("curl '%s/tiling.svg?seed=7'", "http://"+displayAddr(sc.Addr)))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newServerRunner picks redis when configured, else the CLI's file cache.
func (c *CLI) newServerRunner(ctx context.Context, sc ServerConfig, noCache bool) (*pipeline.Runner, error) {
	if noCache || sc.RedisURL == "" {
		return c.newRunner(noCache)
	}
	rc, err := cache.DialRedis(ctx, sc.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect cache: %w", err)
	}
	c.Logger.Info("using redis cache", "prefix", sc.KeyPrefix)
	return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, sc.KeyPrefix), c.Logger), nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// HTTP Server
// =============================================================================

type server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	limits   ServerConfig
	defaults pipeline.Options
	registry *prometheus.Registry
}

func newServer(runner *pipeline.Runner, logger *log.Logger, limits ServerConfig, defaults pipeline.Options) *server {
	if limits.MaxWidth == 0 {
		limits.MaxWidth = defaultMaxSide
	}
	if limits.MaxHeight == 0 {
		limits.MaxHeight = defaultMaxSide
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &server{
		runner:   runner,
		logger:   logger,
		limits:   limits,
		defaults: defaults,
		registry: reg,
	}
}

// installHooks routes pipeline, cache and HTTP events into the server's
// registry.
func (s *server) installHooks() {
	hooks := observability.NewPrometheusHooks(s.registry)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Group(func(r chi.Router) {
		r.Use(s.instrument)
		r.Get("/tiling.{format}", s.handleTiling)
		r.Get("/healthz", s.handleHealth)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// requestID tags each request with an X-Request-ID, reusing the client's
// when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// instrument logs each request and reports it to the HTTP hooks. It runs
// after routing so the route pattern is known.
func (s *server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := chi.RouteContext(r.Context()).RoutePattern()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *server) handleTiling(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := s.parseOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := result.Artifacts[format]
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set("Cache-Control", "public, max-age=86400, immutable")
	h.Set("ETag", `"`+cache.Hash(data)[:32]+`"`)
	h.Set("X-Tiles", strconv.Itoa(result.Stats.TileCount))
	h.Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	if match := r.Header.Get("If-None-Match"); match != "" && match == h.Get("ETag") {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseOptions merges query parameters over the server defaults.
func (s *server) parseOptions(r *http.Request, format string) (pipeline.Options, error) {
	opts := s.defaults
	opts.Logger = s.logger
	opts.Formats = []string{format}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}

	q := r.URL.Query()
	var err error
	parse := func(name string, fn func(string) error) {
		if err != nil || !q.Has(name) {
			return
		}
		if perr := fn(q.Get(name)); perr != nil {
			err = perrors.New(perrors.ErrCodeInvalidInput, "invalid %s: %q", name, q.Get(name))
		}
	}
	parse("seed", func(v string) (e error) { opts.Seed, e = strconv.ParseUint(v, 10, 64); return })
	parse("families", func(v string) (e error) { opts.Families, e = strconv.Atoi(v); return })
	parse("width", func(v string) (e error) { opts.Width, e = strconv.ParseFloat(v, 64); return })
	parse("height", func(v string) (e error) { opts.Height, e = strconv.ParseFloat(v, 64); return })
	parse("spacing", func(v string) (e error) { opts.Spacing, e = strconv.ParseFloat(v, 64); return })
	parse("line_range", func(v string) (e error) { opts.LineRange, e = strconv.Atoi(v); return })
	parse("cull_scale", func(v string) (e error) { opts.CullScale, e = strconv.ParseFloat(v, 64); return })
	parse("scale", func(v string) (e error) { opts.Scale, e = strconv.ParseFloat(v, 64); return })
	parse("transparent", func(v string) (e error) { opts.Transparent, e = strconv.ParseBool(v); return })
	parse("palette", func(v string) error { opts.Palette = v; return nil })
	parse("stroke_width", func(v string) error {
		w, e := strconv.ParseFloat(v, 64)
		opts.StrokeWidth = &w
		return e
	})
	if err != nil {
		return opts, err
	}

	if opts.Width > s.limits.MaxWidth || opts.Height > s.limits.MaxHeight {
		return opts, perrors.New(perrors.ErrCodeInvalidViewport,
			"viewport %gx%g exceeds server limit %gx%g", opts.Width, opts.Height, s.limits.MaxWidth, s.limits.MaxHeight)
	}
	if opts.Families > maxServerFamilies {
		return opts, perrors.New(perrors.ErrCodeInvalidFamilies, "at most %d families are served, got %d", maxServerFamilies, opts.Families)
	}
	if opts.LineRange > pentagrid.MaxLineRange {
		return opts, perrors.New(perrors.ErrCodeInvalidLineRange, "line range at most %d is served, got %d", pentagrid.MaxLineRange, opts.LineRange)
	}
	if opts.CullScale < 0 || !(opts.CullScale <= maxServerCullScale) {
		return opts, perrors.New(perrors.ErrCodeInvalidInput, "cull scale must be within [0, %g], got %g", maxServerCullScale, opts.CullScale)
	}
	return opts, nil
}

// Work per request grows with pairs·(2·lineRange+1)², and the visible share
// of it with the cull window.
const (
	maxServerFamilies  = 24
	maxServerCullScale = 4.0
)

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case perrors.IsValidation(err):
		status = http.StatusBadRequest
	case perrors.Is(err, perrors.ErrCodeUnsupported):
		status = http.StatusNotImplemented
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()), "error", err)
	}

	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{
		"error": perrors.UserMessage(err),
		"code":  string(code),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
