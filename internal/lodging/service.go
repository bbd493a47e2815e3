package lodging

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/toolcall"
)

const accommodationTool = "trivago-accommodation-search"

// StayQuery describes one accommodation search.
type StayQuery struct {
	Location  LocationKey
	Arrival   time.Time
	Departure time.Time
	Adults    int
	Rooms     int
}

// ServiceConfig holds configuration for the lodging service.
type ServiceConfig struct {
	// Invoker executes remote tool calls (required).
	Invoker toolcall.Invoker

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service searches accommodation offers for resolved locations.
type Service struct {
	invoker toolcall.Invoker
	logger  zerolog.Logger
}

// NewService creates a lodging service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		invoker: cfg.Invoker,
		logger:  cfg.Logger,
	}
}

// SearchOffers queries accommodations for the stay and returns up to topN
// offers, stable-sorted by parsed nightly price. Offers with missing or
// malformed prices sort last and keep their relative order.
func (s *Service) SearchOffers(ctx context.Context, q StayQuery, topN int) ([]Offer, error) {
	args := map[string]any{
		"id":        q.Location.ID,
		"ns":        q.Location.NS,
		"arrival":   q.Arrival.Format("2006-01-02"),
		"departure": q.Departure.Format("2006-01-02"),
		"adults":    q.Adults,
		"rooms":     q.Rooms,
	}

	res, err := s.invoker.Invoke(ctx, accommodationTool, args)
	if err != nil {
		return nil, err
	}

	offers := extractOffers(toolcall.Normalize(res))

	sort.SliceStable(offers, func(i, j int) bool {
		return ParseNightlyPrice(offers[i].PricePerNight) < ParseNightlyPrice(offers[j].PricePerNight)
	})

	if topN > 0 && len(offers) > topN {
		offers = offers[:topN]
	}

	s.logger.Debug().
		Int("location_id", q.Location.ID).
		Int("offer_count", len(offers)).
		Msg("accommodation search completed")

	return offers, nil
}

// extractOffers pulls offer records out of a normalized accommodation
// payload: an "output"-wrapped array or a bare array.
func extractOffers(v toolcall.Value) []Offer {
	var records []any

	switch v.Kind() {
	case toolcall.KindObject:
		obj, _ := v.AsObject()
		if out, ok := obj["output"].([]any); ok {
			records = out
		}
	case toolcall.KindArray:
		records, _ = v.AsArray()
	}

	offers := make([]Offer, 0, len(records))
	for _, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		offers = append(offers, Offer{
			Name:          stringField(m, "Accommodation Name", "accommodation_name"),
			PricePerNight: stringField(m, "Price Per Night", "price_per_night"),
			PricePerStay:  stringField(m, "Price Per Stay", "price_per_stay"),
			Rating:        stringField(m, "Review Rating", "review_rating"),
			URL:           stringField(m, "Accommodation URL", "accommodation_url"),
		})
	}
	return offers
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
