package flights

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/telemetry"
)

// SearchConfig holds configuration for the trip candidate search.
type SearchConfig struct {
	// Provider is the round-trip fare provider.
	Provider Provider

	// Origins are the departure airports to scan.
	Origins []Origin

	// HorizonDays is how far ahead to scan for departures (default: 120).
	HorizonDays int

	// Schedule is the outbound admission rule (default: DefaultSchedule).
	Schedule Schedule

	// Nights bounds the stay length (default: 2..4).
	Nights NightRange

	// Logger for search operations.
	Logger zerolog.Logger

	// Metrics records fare query counts (optional).
	Metrics *telemetry.PipelineMetrics

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Search enumerates origin/date combinations under the schedule constraint
// and produces ranked trip candidates.
type Search struct {
	provider Provider
	origins  []Origin
	horizon  int
	schedule Schedule
	nights   NightRange
	logger   zerolog.Logger
	metrics  *telemetry.PipelineMetrics
	now      func() time.Time
}

// NewSearch creates a trip candidate search.
func NewSearch(cfg SearchConfig) *Search {
	horizon := cfg.HorizonDays
	if horizon == 0 {
		horizon = 120
	}
	schedule := cfg.Schedule
	if schedule == nil {
		schedule = DefaultSchedule()
	}
	nights := cfg.Nights
	if nights.Min == 0 && nights.Max == 0 {
		nights = NightRange{Min: 2, Max: 4}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Search{
		provider: cfg.Provider,
		origins:  cfg.Origins,
		horizon:  horizon,
		schedule: schedule,
		nights:   nights,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		now:      now,
	}
}

// Run scans every origin and admissible date in the horizon and returns the
// ranked candidates. A provider error aborts the whole search: the fare
// provider defines no partial-failure contract, so a half-scanned result
// set would silently misrank.
func (s *Search) Run(ctx context.Context) ([]TripCandidate, error) {
	now := s.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var candidates []TripCandidate
	queries := 0

	for _, origin := range s.origins {
		for offset := 0; offset < s.horizon; offset++ {
			date := today.AddDate(0, 0, offset)
			timeFrom, timeTo, ok := s.schedule.Window(date)
			if !ok {
				continue
			}

			q := RoundTripQuery{
				Origin:            origin.Code,
				OutboundDate:      date,
				DepartureTimeFrom: timeFrom,
				DepartureTimeTo:   timeTo,
				ReturnDateFrom:    date.AddDate(0, 0, s.nights.Min),
				ReturnDateTo:      date.AddDate(0, 0, s.nights.Max),
			}

			trips, err := s.provider.SearchRoundTrips(ctx, q)
			if err != nil {
				s.logger.Error().Err(err).
					Str("origin", origin.Code).
					Time("outbound_date", date).
					Msg("fare query failed, aborting search")
				return nil, err
			}
			queries++
			s.metrics.AddFareQuery(ctx, origin.Code)

			for _, trip := range trips {
				if c, ok := s.admit(origin, trip); ok {
					candidates = append(candidates, c)
				}
			}
		}
	}

	rank(candidates)

	s.logger.Info().
		Int("queries", queries).
		Int("candidates", len(candidates)).
		Int("origins", len(s.origins)).
		Int("horizon_days", s.horizon).
		Msg("trip candidate search completed")

	return candidates, nil
}

// admit tags a provider round trip with its origin and checks it against
// the admission rule and night range. Providers occasionally ignore the
// requested time window, so the rule is re-checked here.
func (s *Search) admit(origin Origin, trip RoundTrip) (TripCandidate, bool) {
	outbound := trip.Outbound
	inbound := trip.Inbound
	outbound.Origin = origin.Code
	outbound.OriginFull = origin.Name
	inbound.Destination = origin.Code
	inbound.DestinationFull = origin.Name

	if !s.schedule.Admits(outbound.DepartureTime) {
		return TripCandidate{}, false
	}

	c := TripCandidate{
		Outbound:      outbound,
		Inbound:       inbound,
		OutboundPrice: outbound.Price,
	}
	if !s.nights.Contains(c.Nights()) {
		return TripCandidate{}, false
	}
	return c, true
}

// rank stable-sorts candidates by total price, then outbound departure
// date, then destination code.
func rank(candidates []TripCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.TotalPrice() != b.TotalPrice() {
			return a.TotalPrice() < b.TotalPrice()
		}
		ad, bd := a.Outbound.DepartureDate(), b.Outbound.DepartureDate()
		if !ad.Equal(bd) {
			return ad.Before(bd)
		}
		return a.Outbound.Destination < b.Outbound.Destination
	})
}
