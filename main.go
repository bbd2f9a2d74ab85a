package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"studyplanner/internal/config"
	"studyplanner/internal/health"
	"studyplanner/internal/middleware"
	"studyplanner/internal/tasks"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger) // for third-party packages that use slog

	dsn, err := tasks.SQLiteFileDSN(cfg.DBPath)
	if err != nil {
		logger.Error("db_dsn_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	repo, err := tasks.NewSQLiteRepo(dsn)
	if err != nil {
		logger.Error("db_open_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.ApplyMigrations(context.Background()); err != nil {
		logger.Error("db_migrate_error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := newRouter(repo, cfg, logger)

	addr := ":" + cfg.Port
	logger.Info("server_listen", slog.String("addr", addr), slog.String("db", cfg.DBPath))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newRouter wires the health endpoint, task routes, and middleware stack
func newRouter(repo tasks.Repository, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// ---- Middleware stack (order matters a bit) ----
	// RequestID first so downstream can include it (logger, traces, etc.)
	r.Use(chimw.RequestID)

	// Panic recovery: never crash the server; returns 500 on panics
	r.Use(chimw.Recoverer)

	// Timeouts: cancel handlers that exceed this duration
	r.Use(chimw.Timeout(15 * time.Second))

	// CORS: single allowed origin from the environment, * by default
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	// Structured request logger (includes req_id)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.TracingMiddleware)

	// Disabled unless RATE_LIMIT_RPS is set; NewLimiter returns nil for 0
	r.Use(middleware.RateLimitMiddleware(middleware.NewLimiter(cfg.RateRPS, cfg.RateBurst)))

	// ---- Routes ----
	r.Get("/health", health.Handler(repo))
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	tasks.RegisterRoutes(r, repo, logger)

	return r
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: l,
	})
	return slog.New(handler)
}
