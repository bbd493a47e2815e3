// Package enrich augments ranked trip candidates with lodging, weather
// and attraction data under a partial-failure policy.
package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/flights"
	"github.com/farescout/farescout/internal/lodging"
	"github.com/farescout/farescout/internal/telemetry"
	"github.com/farescout/farescout/internal/travelinfo"
)

// EnrichedTrip is one fully assembled pipeline result. Assembled once and
// never mutated afterwards. Empty lodging, weather or attraction sets are
// explicit "none found" states, not omissions.
type EnrichedTrip struct {
	Candidate       flights.TripCandidate `json:"candidate"`
	DestinationCity string                `json:"destination_city"`
	Arrival         time.Time             `json:"arrival"`
	Departure       time.Time             `json:"departure"`
	Offers          []lodging.Offer       `json:"offers"`
	Weather         []any                 `json:"weather"`
	Attractions     []any                 `json:"attractions"`
}

// Config holds configuration for the enrichment orchestrator.
type Config struct {
	// Resolver turns destination names into location keys (required).
	Resolver *lodging.Resolver

	// Lodging searches accommodation offers (required).
	Lodging *lodging.Service

	// TravelInfo fetches weather and attractions (required).
	TravelInfo *travelinfo.Service

	// Workers bounds enrichment concurrency (default: 4).
	Workers int

	// OffersPerTrip caps lodging offers per candidate (default: 3).
	OffersPerTrip int

	// Adults and Rooms are the occupancy parameters (defaults: 2, 1).
	Adults int
	Rooms  int

	// SkipLodging disables location resolution and offer search entirely.
	SkipLodging bool

	// Logger for orchestrator operations.
	Logger zerolog.Logger

	// Metrics records cache and enrichment counters (optional).
	Metrics *telemetry.PipelineMetrics
}

// Orchestrator fans enrichment out across candidates with bounded
// concurrency, deduplicating repeated destination queries within a run.
type Orchestrator struct {
	resolver      *lodging.Resolver
	lodging       *lodging.Service
	travelInfo    *travelinfo.Service
	workers       int
	offersPerTrip int
	adults        int
	rooms         int
	skipLodging   bool
	logger        zerolog.Logger
	metrics       *telemetry.PipelineMetrics
}

// NewOrchestrator creates an enrichment orchestrator.
func NewOrchestrator(cfg Config) *Orchestrator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	offers := cfg.OffersPerTrip
	if offers <= 0 {
		offers = 3
	}
	adults := cfg.Adults
	if adults <= 0 {
		adults = 2
	}
	rooms := cfg.Rooms
	if rooms <= 0 {
		rooms = 1
	}

	return &Orchestrator{
		resolver:      cfg.Resolver,
		lodging:       cfg.Lodging,
		travelInfo:    cfg.TravelInfo,
		workers:       workers,
		offersPerTrip: offers,
		adults:        adults,
		rooms:         rooms,
		skipLodging:   cfg.SkipLodging,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
	}
}

// stayKey identifies a stay window for weather and lodging dedup.
type stayKey struct {
	city      string
	arrival   string
	departure string
}

// run holds the mutable state of one pipeline run. Created at the start
// of Enrich and discarded at completion; nothing persists across runs.
type run struct {
	id          string
	locations   *dedupCache[string, lodging.LocationKey]
	offers      *dedupCache[stayKey, []lodging.Offer]
	weather     *dedupCache[stayKey, []any]
	attractions *dedupCache[string, []any]

	// travelDown flips on the first weather or attraction transport
	// failure. Later candidates skip the dead provider, and the run's
	// travel data is cleared wholesale once the workers finish.
	travelDown atomic.Bool
}

// Enrich assembles an EnrichedTrip per candidate. Output order equals
// input order regardless of completion order. Failures local to one
// candidate never block the others.
func (o *Orchestrator) Enrich(ctx context.Context, candidates []flights.TripCandidate) []EnrichedTrip {
	started := time.Now()

	r := &run{
		id:          uuid.NewString(),
		locations:   newDedupCache[string, lodging.LocationKey](),
		offers:      newDedupCache[stayKey, []lodging.Offer](),
		weather:     newDedupCache[stayKey, []any](),
		attractions: newDedupCache[string, []any](),
	}

	results := make([]EnrichedTrip, len(candidates))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.enrichOne(ctx, r, candidates[i])
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// A travel provider failure degrades the whole run: candidates that
	// finished before (or concurrently with) the failure lose their
	// weather and attraction data too, so the output never depends on
	// worker scheduling.
	if r.travelDown.Load() {
		for i := range results {
			results[i].Weather = []any{}
			results[i].Attractions = []any{}
		}
	}

	o.metrics.AddTripsEnriched(ctx, int64(len(results)))
	o.metrics.RecordEnrichDuration(ctx, time.Since(started).Seconds())

	o.logger.Info().
		Str("run_id", r.id).
		Int("candidates", len(candidates)).
		Bool("travel_data_degraded", r.travelDown.Load()).
		Dur("elapsed", time.Since(started)).
		Msg("enrichment completed")

	return results
}

func (o *Orchestrator) enrichOne(ctx context.Context, r *run, c flights.TripCandidate) EnrichedTrip {
	city := DestinationCity(c.Outbound)
	arrival := c.Outbound.DepartureDate()
	departure := c.Inbound.DepartureDate()

	trip := EnrichedTrip{
		Candidate:       c,
		DestinationCity: city,
		Arrival:         arrival,
		Departure:       departure,
		Offers:          []lodging.Offer{},
		Weather:         []any{},
		Attractions:     []any{},
	}

	key := stayKey{
		city:      city,
		arrival:   arrival.Format("2006-01-02"),
		departure: departure.Format("2006-01-02"),
	}

	if !o.skipLodging {
		trip.Offers = o.fetchOffers(ctx, r, key, arrival, departure)
	}
	trip.Weather = o.fetchWeather(ctx, r, key, arrival, departure)
	trip.Attractions = o.fetchAttractions(ctx, r, city)

	return trip
}

// fetchOffers resolves the destination and searches lodging. Both steps
// degrade to an empty offer list for this candidate only.
func (o *Orchestrator) fetchOffers(ctx context.Context, r *run, key stayKey, arrival, departure time.Time) []lodging.Offer {
	loc, err, hit := r.locations.Do(ctx, key.city, func() (lodging.LocationKey, error) {
		o.metrics.AddToolCall(ctx, "trivago-search-suggestions")
		return o.resolver.Resolve(ctx, key.city)
	})
	o.recordCache(ctx, "location", hit)
	if err != nil {
		if !errors.Is(err, lodging.ErrNoLocation) {
			o.logger.Warn().Err(err).Str("city", key.city).Msg("location resolution failed")
		}
		return []lodging.Offer{}
	}

	offers, err, hit := r.offers.Do(ctx, key, func() ([]lodging.Offer, error) {
		o.metrics.AddToolCall(ctx, "trivago-accommodation-search")
		return o.lodging.SearchOffers(ctx, lodging.StayQuery{
			Location:  loc,
			Arrival:   arrival,
			Departure: departure,
			Adults:    o.adults,
			Rooms:     o.rooms,
		}, o.offersPerTrip)
	})
	o.recordCache(ctx, "lodging", hit)
	if err != nil {
		o.logger.Warn().Err(err).Str("city", key.city).Msg("lodging search failed")
		return []lodging.Offer{}
	}
	if offers == nil {
		return []lodging.Offer{}
	}
	return offers
}

func (o *Orchestrator) fetchWeather(ctx context.Context, r *run, key stayKey, arrival, departure time.Time) []any {
	if r.travelDown.Load() {
		return []any{}
	}

	samples, err, hit := r.weather.Do(ctx, key, func() ([]any, error) {
		o.metrics.AddToolCall(ctx, "get_weather")
		return o.travelInfo.Weather(ctx, key.city, arrival, departure)
	})
	o.recordCache(ctx, "weather", hit)
	if err != nil {
		r.travelDown.Store(true)
		o.logger.Warn().Err(err).Str("city", key.city).Msg("weather fetch failed, degrading travel data for this run")
		return []any{}
	}
	if samples == nil {
		return []any{}
	}
	return samples
}

func (o *Orchestrator) fetchAttractions(ctx context.Context, r *run, city string) []any {
	if r.travelDown.Load() {
		return []any{}
	}

	entries, err, hit := r.attractions.Do(ctx, city, func() ([]any, error) {
		o.metrics.AddToolCall(ctx, "get_attractions")
		return o.travelInfo.Attractions(ctx, city)
	})
	o.recordCache(ctx, "attractions", hit)
	if err != nil {
		r.travelDown.Store(true)
		o.logger.Warn().Err(err).Str("city", city).Msg("attractions fetch failed, degrading travel data for this run")
		return []any{}
	}
	if entries == nil {
		return []any{}
	}
	return entries
}

func (o *Orchestrator) recordCache(ctx context.Context, kind string, hit bool) {
	if hit {
		o.metrics.AddCacheHit(ctx, kind)
	} else {
		o.metrics.AddCacheMiss(ctx, kind)
	}
}

// DestinationCity derives the display city from a leg's full destination
// name by cutting at the first comma. Falls back to the airport code when
// no full name is present.
func DestinationCity(leg flights.Leg) string {
	full := strings.TrimSpace(leg.DestinationFull)
	if full == "" {
		return leg.Destination
	}
	if idx := strings.Index(full, ","); idx != -1 {
		return strings.TrimSpace(full[:idx])
	}
	return full
}
