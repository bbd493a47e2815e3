package lodging

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/toolcall"
)

const suggestionsTool = "trivago-search-suggestions"

// ResolverConfig holds configuration for the location resolver.
type ResolverConfig struct {
	// Invoker executes remote tool calls (required).
	Invoker toolcall.Invoker

	// Logger for resolver operations.
	Logger zerolog.Logger
}

// Resolver turns destination display strings into provider location keys
// through the suggestion tool.
type Resolver struct {
	invoker toolcall.Invoker
	logger  zerolog.Logger
}

// NewResolver creates a location resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		invoker: cfg.Invoker,
		logger:  cfg.Logger,
	}
}

// Resolve tries each query candidate for the destination in order and
// returns the first location key found. Returns ErrNoLocation when every
// candidate comes back empty; transport errors propagate so callers can
// apply their own degradation policy.
func (r *Resolver) Resolve(ctx context.Context, destination string) (LocationKey, error) {
	var lastErr error

	for _, query := range QueryCandidates(destination) {
		res, err := r.invoker.Invoke(ctx, suggestionsTool, map[string]any{"query": query})
		if err != nil {
			lastErr = err
			r.logger.Warn().Err(err).
				Str("query", query).
				Msg("location suggestion call failed")
			continue
		}

		if key, ok := extractLocationKey(toolcall.Normalize(res)); ok {
			r.logger.Debug().
				Str("destination", destination).
				Str("query", query).
				Int("id", key.ID).
				Int("ns", key.NS).
				Msg("resolved location")
			return key, nil
		}
	}

	if lastErr != nil {
		return LocationKey{}, lastErr
	}
	return LocationKey{}, ErrNoLocation
}

// extractLocationKey pulls the first record exposing both an ID and an NS
// out of a normalized suggestion payload. Accepts an "output"-wrapped
// array, a bare array, or a single record object.
func extractLocationKey(v toolcall.Value) (LocationKey, bool) {
	switch v.Kind() {
	case toolcall.KindObject:
		obj, _ := v.AsObject()
		if out, ok := obj["output"]; ok {
			if arr, ok := out.([]any); ok {
				return keyFromRecords(arr)
			}
		}
		return keyFromRecord(obj)
	case toolcall.KindArray:
		arr, _ := v.AsArray()
		return keyFromRecords(arr)
	default:
		return LocationKey{}, false
	}
}

func keyFromRecords(records []any) (LocationKey, bool) {
	for _, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		if key, ok := keyFromRecord(m); ok {
			return key, true
		}
	}
	return LocationKey{}, false
}

func keyFromRecord(m map[string]any) (LocationKey, bool) {
	id, okID := numericField(m, "id")
	ns, okNS := numericField(m, "ns")
	if !okID || !okNS {
		return LocationKey{}, false
	}
	return LocationKey{ID: id, NS: ns}, true
}

func numericField(m map[string]any, name string) (int, bool) {
	for k, raw := range m {
		if !strings.EqualFold(k, name) {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return int(v), true
		case int:
			return v, true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
