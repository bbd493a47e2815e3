// Package api provides the HTTP API for farescout.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/api/handler"
	"github.com/farescout/farescout/internal/api/middleware"
	"github.com/farescout/farescout/internal/auth"
	"github.com/farescout/farescout/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Tokens      *auth.TokenService
	Pipeline    handler.PipelineRunner
	Registry    *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "farescout-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry)
	tripsHandler := handler.NewTripsHandler(cfg.Pipeline, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.Tokens)

	// Trip searches fan out to remote providers, so they get the strict limit
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.With(expensiveRateLimit).Get("/trips", tripsHandler.Search)

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			// Provider internals are operator-only
			r.With(standardRateLimit, authMiddleware).Get("/providers", opsHandler.Providers)
		})
	})

	return r
}
