package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/config"
	"github.com/farescout/farescout/internal/flights/ryanair"
	"github.com/farescout/farescout/internal/lodging"
	"github.com/farescout/farescout/internal/provider/resilience"
	"github.com/farescout/farescout/internal/telemetry"
	"github.com/farescout/farescout/internal/toolcall/httpinvoker"
	"github.com/farescout/farescout/internal/travelinfo"
)

// BuildConfig holds the inputs for assembling a full pipeline from a plan.
type BuildConfig struct {
	// Plan is the search plan (required).
	Plan *config.Plan

	// Registry tracks provider health for all constructed clients.
	Registry *resilience.Registry

	// Logger for all constructed components.
	Logger zerolog.Logger

	// Metrics records pipeline counters (optional).
	Metrics *telemetry.PipelineMetrics
}

// Build assembles the fare provider, tool invokers and domain services
// from the plan's provider endpoints, and returns a ready pipeline.
func Build(cfg BuildConfig) *Pipeline {
	plan := cfg.Plan

	fares := ryanair.NewClient(ryanair.ClientConfig{
		BaseURL:  plan.Providers.RyanairBaseURL,
		Currency: plan.Providers.Currency,
		Registry: cfg.Registry,
		Logger:   cfg.Logger,
	})

	lodgingInvoker := httpinvoker.NewClient(httpinvoker.ClientConfig{
		Name:     "trivago",
		Endpoint: plan.Providers.TrivagoEndpoint,
		Registry: cfg.Registry,
		Logger:   cfg.Logger,
	})

	travelInvoker := httpinvoker.NewClient(httpinvoker.ClientConfig{
		Name:     "geotemp",
		Endpoint: plan.Providers.GeotempEndpoint,
		Registry: cfg.Registry,
		Logger:   cfg.Logger,
	})

	resolver := lodging.NewResolver(lodging.ResolverConfig{
		Invoker: lodgingInvoker,
		Logger:  cfg.Logger,
	})

	lodgingSvc := lodging.NewService(lodging.ServiceConfig{
		Invoker: lodgingInvoker,
		Logger:  cfg.Logger,
	})

	travelSvc := travelinfo.NewService(travelinfo.ServiceConfig{
		Invoker:         travelInvoker,
		AttractionLimit: plan.AttractionLimit,
		Logger:          cfg.Logger,
	})

	return New(Config{
		Plan:       plan,
		Flights:    fares,
		Resolver:   resolver,
		Lodging:    lodgingSvc,
		TravelInfo: travelSvc,
		Logger:     cfg.Logger,
		Metrics:    cfg.Metrics,
	})
}
