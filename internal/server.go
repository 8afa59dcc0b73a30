package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/giannis84/course-catalog/internal/logging"
	"github.com/giannis84/course-catalog/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// RoutesRegistry is a function that registers routes on a chi.Router
type RoutesRegistry func(r chi.Router)

// ServiceConfig holds what is needed to build a Service. Zero timeouts fall back to defaults.
type ServiceConfig struct {
	Addr         string
	Logger       *slog.Logger
	Routes       RoutesRegistry
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Service wraps an HTTP server with its router
type Service struct {
	Logger     *slog.Logger
	HTTPServer *http.Server
	Router     *chi.Mux
}

// NewService sets up the router with the common middleware, registers the routes and
// builds the HTTP server.
func NewService(cfg ServiceConfig) *Service {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(logging.RequestLogger(cfg.Logger))
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)

	if cfg.Routes != nil {
		cfg.Routes(router)
	}

	return &Service{
		Logger: cfg.Logger,
		Router: router,
		HTTPServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  orDefault(cfg.ReadTimeout, defaultReadTimeout),
			WriteTimeout: orDefault(cfg.WriteTimeout, defaultWriteTimeout),
			IdleTimeout:  orDefault(cfg.IdleTimeout, defaultIdleTimeout),
		},
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// ListenAndServeWrapper starts the http service
func (s *Service) ListenAndServeWrapper(service string) error {
	s.Logger.Info("starting http service", slog.String("service", service), slog.String("addr", s.HTTPServer.Addr))
	return s.HTTPServer.ListenAndServe()
}
