// Package travelinfo fetches weather and attraction data for destinations
// through the remote tool invoker.
package travelinfo

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/toolcall"
)

const (
	weatherTool     = "get_weather"
	attractionsTool = "get_attractions"

	// DefaultAttractionLimit bounds attraction results per destination.
	DefaultAttractionLimit = 10
)

// ServiceConfig holds configuration for the travel info service.
type ServiceConfig struct {
	// Invoker executes remote tool calls (required).
	Invoker toolcall.Invoker

	// AttractionLimit caps attractions per destination (default: 10).
	AttractionLimit int

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service retrieves weather and attraction records. Records are provider
// defined and stay opaque beyond display fields, so the service returns
// them as raw values.
type Service struct {
	invoker         toolcall.Invoker
	attractionLimit int
	logger          zerolog.Logger
}

// NewService creates a travel info service.
func NewService(cfg ServiceConfig) *Service {
	limit := cfg.AttractionLimit
	if limit == 0 {
		limit = DefaultAttractionLimit
	}
	return &Service{
		invoker:         cfg.Invoker,
		attractionLimit: limit,
		logger:          cfg.Logger,
	}
}

// queryCity cuts a destination at its " - " qualifier for tool queries.
func queryCity(city string) string {
	if idx := strings.Index(city, " - "); idx != -1 {
		return strings.TrimSpace(city[:idx])
	}
	return city
}

// Weather fetches weather samples for a city and stay window. The tool is
// queried by the arrival month, which is what the provider summarizes by.
func (s *Service) Weather(ctx context.Context, city string, arrival, departure time.Time) ([]any, error) {
	args := map[string]any{
		"city_name": queryCity(city),
		"month":     int(arrival.Month()),
	}

	res, err := s.invoker.Invoke(ctx, weatherTool, args)
	if err != nil {
		return nil, err
	}

	samples := unwrapRecords(toolcall.Normalize(res), "days", "weather")

	s.logger.Debug().
		Str("city", city).
		Time("arrival", arrival).
		Time("departure", departure).
		Int("sample_count", len(samples)).
		Msg("weather fetched")

	return samples, nil
}

// Attractions fetches points of interest for a city.
func (s *Service) Attractions(ctx context.Context, city string) ([]any, error) {
	args := map[string]any{
		"city_name": queryCity(city),
		"limit":     s.attractionLimit,
	}

	res, err := s.invoker.Invoke(ctx, attractionsTool, args)
	if err != nil {
		return nil, err
	}

	entries := unwrapRecords(toolcall.Normalize(res), "attractions", "items")

	s.logger.Debug().
		Str("city", city).
		Int("entry_count", len(entries)).
		Msg("attractions fetched")

	return entries, nil
}

// unwrapRecords extracts the record list from a normalized payload: a
// bare array, an object wrapping the list under one of the given keys, or
// a single summary object treated as a one-element list. Null and raw
// fallbacks yield an empty list.
func unwrapRecords(v toolcall.Value, listKeys ...string) []any {
	switch v.Kind() {
	case toolcall.KindArray:
		arr, _ := v.AsArray()
		return arr
	case toolcall.KindObject:
		obj, _ := v.AsObject()
		for _, key := range listKeys {
			if list, ok := obj[key].([]any); ok {
				return list
			}
		}
		return []any{obj}
	default:
		return nil
	}
}
