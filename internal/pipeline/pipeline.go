// Package pipeline composes trip candidate search and enrichment into
// one runnable unit shared by the API, the worker and the CLI.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/config"
	"github.com/farescout/farescout/internal/enrich"
	"github.com/farescout/farescout/internal/flights"
	"github.com/farescout/farescout/internal/lodging"
	"github.com/farescout/farescout/internal/telemetry"
	"github.com/farescout/farescout/internal/travelinfo"
)

// Options override plan values for one run. Zero values keep the plan's
// settings.
type Options struct {
	// HorizonDays overrides the search horizon.
	HorizonDays int

	// CheapestTrips overrides how many candidates get enriched.
	CheapestTrips int

	// OffersPerTrip overrides the lodging offer cap.
	OffersPerTrip int

	// Adults and Rooms override the occupancy parameters.
	Adults int
	Rooms  int

	// SkipLodging disables lodging enrichment for this run.
	SkipLodging bool
}

// Result is one complete pipeline run.
type Result struct {
	// RunStarted is when the run began.
	RunStarted time.Time `json:"run_started"`

	// CandidateCount is the size of the full ranked candidate set.
	CandidateCount int `json:"candidate_count"`

	// Trips are the enriched cheapest candidates, in rank order.
	Trips []enrich.EnrichedTrip `json:"trips"`

	// Elapsed is the total run duration.
	Elapsed time.Duration `json:"elapsed"`
}

// Config holds the pipeline's collaborators.
type Config struct {
	// Plan is the search plan (required).
	Plan *config.Plan

	// Flights is the fare provider (required).
	Flights flights.Provider

	// Resolver turns destinations into location keys (required).
	Resolver *lodging.Resolver

	// Lodging searches accommodation offers (required).
	Lodging *lodging.Service

	// TravelInfo fetches weather and attractions (required).
	TravelInfo *travelinfo.Service

	// Logger for pipeline operations.
	Logger zerolog.Logger

	// Metrics records pipeline counters (optional).
	Metrics *telemetry.PipelineMetrics
}

// Pipeline runs the search and enrichment phases end to end. The search
// and the orchestrator are built per run so per-run overrides and the
// run-scoped dedup caches stay isolated.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Run searches for candidates, keeps the cheapest and enriches them. A
// fare provider failure aborts the run; enrichment failures degrade per
// the orchestrator's policy and never surface here.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	plan := p.cfg.Plan

	horizon := plan.HorizonDays
	if opts.HorizonDays > 0 {
		horizon = opts.HorizonDays
	}

	search := flights.NewSearch(flights.SearchConfig{
		Provider:    p.cfg.Flights,
		Origins:     plan.Origins,
		HorizonDays: horizon,
		Schedule:    plan.FlightSchedule(),
		Nights:      plan.Nights,
		Logger:      p.cfg.Logger,
		Metrics:     p.cfg.Metrics,
	})

	candidates, err := search.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching trip candidates: %w", err)
	}

	keep := plan.CheapestTrips
	if opts.CheapestTrips > 0 {
		keep = opts.CheapestTrips
	}
	cheapest := candidates
	if keep > 0 && len(cheapest) > keep {
		cheapest = cheapest[:keep]
	}

	orchestrator := enrich.NewOrchestrator(enrich.Config{
		Resolver:      p.cfg.Resolver,
		Lodging:       p.cfg.Lodging,
		TravelInfo:    p.cfg.TravelInfo,
		Workers:       plan.Workers,
		OffersPerTrip: override(plan.OffersPerTrip, opts.OffersPerTrip),
		Adults:        override(plan.Adults, opts.Adults),
		Rooms:         override(plan.Rooms, opts.Rooms),
		SkipLodging:   opts.SkipLodging,
		Logger:        p.cfg.Logger,
		Metrics:       p.cfg.Metrics,
	})

	trips := orchestrator.Enrich(ctx, cheapest)

	result := &Result{
		RunStarted:     started,
		CandidateCount: len(candidates),
		Trips:          trips,
		Elapsed:        time.Since(started),
	}

	p.cfg.Logger.Info().
		Int("candidates", result.CandidateCount).
		Int("enriched", len(trips)).
		Dur("elapsed", result.Elapsed).
		Msg("pipeline run completed")

	return result, nil
}

func override(base, value int) int {
	if value > 0 {
		return value
	}
	return base
}
