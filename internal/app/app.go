package app

import (
	"context"
	"fmt"
	"linetask/internal/app/deps"
	"linetask/internal/app/services"
	"linetask/internal/http/handlers/health"
	"linetask/internal/http/handlers/remind"
	"linetask/internal/http/handlers/response"
	"linetask/internal/http/handlers/webhook"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Webhook http.Handler
	Remind  http.Handler
	Health  http.Handler
	Metrics http.Handler
}

func NewRouter(h Handlers) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.MethodNotAllowed(func(rw http.ResponseWriter, r *http.Request) {
		response.RenderMethodNotAllowed(rw)
	})
	router.NotFound(func(rw http.ResponseWriter, r *http.Request) {
		response.RenderNotFound(rw)
	})

	router.Method(http.MethodPost, "/webhook", h.Webhook)
	router.Method(http.MethodGet, "/remind", h.Remind)
	router.Method(http.MethodGet, "/health", h.Health)
	if h.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.Metrics)
	}
	return router
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	checks := map[string]health.Check{
		"postgresql": func(ctx context.Context) error { return deps.DB.Ping(ctx) },
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}

	router := NewRouter(Handlers{
		Webhook: webhook.New(
			deps.Logger,
			deps.SignatureValidator,
			deps.EventDeduplicator,
			deps.Metrics,
			s.RegisterTask,
		),
		Remind:  remind.New(deps.Logger, deps.Config.RemindSecret, s.SendReminders),
		Health:  health.New(deps.Logger, checks),
		Metrics: promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}),
	})

	if deps.Config.RemindSecret == "" {
		deps.Logger.Warning(
			context.Background(),
			"REMIND_SECRET is not set, reminder trigger is open to anyone.",
		)
	}

	return &http.Server{
		Handler:           router,
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Reminder fan-out may take a while for many users.
		WriteTimeout: 2 * time.Minute,
	}
}
