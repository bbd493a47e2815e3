package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by the trip pipeline.
// A nil *PipelineMetrics is valid and records nothing, so services can be
// constructed without telemetry in tests.
type PipelineMetrics struct {
	fareQueries    metric.Int64Counter
	toolCalls      metric.Int64Counter
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
	tripsEnriched  metric.Int64Counter
	enrichDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instrument set on the given meter.
func NewPipelineMetrics(m metric.Meter) (*PipelineMetrics, error) {
	fareQueries, err := m.Int64Counter("farescout.fare_queries_total",
		metric.WithDescription("Fare provider queries issued by trip search"))
	if err != nil {
		return nil, err
	}
	toolCalls, err := m.Int64Counter("farescout.tool_calls_total",
		metric.WithDescription("Remote tool invocations issued by enrichment"))
	if err != nil {
		return nil, err
	}
	cacheHits, err := m.Int64Counter("farescout.dedup_cache_hits_total",
		metric.WithDescription("Enrichment dedup cache hits"))
	if err != nil {
		return nil, err
	}
	cacheMisses, err := m.Int64Counter("farescout.dedup_cache_misses_total",
		metric.WithDescription("Enrichment dedup cache misses"))
	if err != nil {
		return nil, err
	}
	tripsEnriched, err := m.Int64Counter("farescout.trips_enriched_total",
		metric.WithDescription("Trip candidates enriched"))
	if err != nil {
		return nil, err
	}
	enrichDuration, err := m.Float64Histogram("farescout.enrich_duration_seconds",
		metric.WithDescription("Wall time of one enrichment run"))
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		fareQueries:    fareQueries,
		toolCalls:      toolCalls,
		cacheHits:      cacheHits,
		cacheMisses:    cacheMisses,
		tripsEnriched:  tripsEnriched,
		enrichDuration: enrichDuration,
	}, nil
}

// AddFareQuery records one fare provider query for an origin.
func (p *PipelineMetrics) AddFareQuery(ctx context.Context, origin string) {
	if p == nil {
		return
	}
	p.fareQueries.Add(ctx, 1, metric.WithAttributes(attribute.String("origin", origin)))
}

// AddToolCall records one remote tool invocation.
func (p *PipelineMetrics) AddToolCall(ctx context.Context, tool string) {
	if p == nil {
		return
	}
	p.toolCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", tool)))
}

// AddCacheHit records a dedup cache hit for the given lookup kind.
func (p *PipelineMetrics) AddCacheHit(ctx context.Context, kind string) {
	if p == nil {
		return
	}
	p.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// AddCacheMiss records a dedup cache miss for the given lookup kind.
func (p *PipelineMetrics) AddCacheMiss(ctx context.Context, kind string) {
	if p == nil {
		return
	}
	p.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// AddTripsEnriched records n assembled enriched trips.
func (p *PipelineMetrics) AddTripsEnriched(ctx context.Context, n int64) {
	if p == nil {
		return
	}
	p.tripsEnriched.Add(ctx, n)
}

// RecordEnrichDuration records the wall time of one enrichment run.
func (p *PipelineMetrics) RecordEnrichDuration(ctx context.Context, seconds float64) {
	if p == nil {
		return
	}
	p.enrichDuration.Record(ctx, seconds)
}
