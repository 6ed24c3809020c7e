// Package api exposes the sync controls, status and run settings over HTTP.
package api

//go:generate mockgen -source=router.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/service"
)

// Controller steers the active run.
type Controller interface {
	Pause() error
	Resume() error
	Cancel() error
	Status() service.Status
}

// Scheduler starts runs and owns the run settings.
type Scheduler interface {
	RunNow(ctx context.Context, podcastIDs []int64) (string, error)
	Settings(ctx context.Context) (domain.RunSettings, error)
	MergeSettings(ctx context.Context, apply func(domain.RunSettings) domain.RunSettings) (domain.RunSettings, error)
	Next() time.Time
}

type Config struct {
	CORSAllowedOrigins []string
	// ControlRateLimit is the number of control requests allowed per client IP per minute.
	ControlRateLimit int
}

type Handler struct {
	controller Controller
	scheduler  Scheduler
	logger     *slog.Logger
	started    time.Time
	now        func() time.Time
}

func NewHandler(controller Controller, scheduler Scheduler, logger *slog.Logger) *Handler {
	return &Handler{
		controller: controller,
		scheduler:  scheduler,
		logger:     logger.With("component", "api"),
		started:    time.Now(),
		now:        time.Now,
	}
}

func NewRouter(h *Handler, cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(requestMetrics)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", h.Health)
	r.Get("/status", h.Status)
	r.Get("/auto-sync-settings", h.GetSettings)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.ControlRateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.ControlRateLimit, time.Minute))
		}

		r.Post("/sync", h.StartSync)
		r.Post("/auto-sync-settings", h.UpdateSettings)
		r.Post("/api/sync-pause", h.Pause)
		r.Post("/api/sync-resume", h.Resume)
		r.Post("/api/sync-cancel", h.Cancel)
	})

	return r
}
