// Package lodging resolves destinations to provider location keys and
// searches accommodation offers through the remote tool invoker.
package lodging

import (
	"errors"
	"strings"
)

// Predefined errors for lodging operations.
var (
	// ErrNoLocation is returned when no location key could be resolved
	// for any query candidate.
	ErrNoLocation = errors.New("no location found")
)

// LocationKey identifies a destination in the accommodation provider's
// namespace. Opaque beyond equality.
type LocationKey struct {
	ID int
	NS int
}

// Offer is one accommodation offer. Price fields keep the provider's
// free-form currency notation; ranking uses ParseNightlyPrice on demand
// and never writes the parsed value back.
type Offer struct {
	Name          string `json:"name"`
	PricePerNight string `json:"price_per_night"`
	PricePerStay  string `json:"price_per_stay"`
	Rating        string `json:"rating"`
	URL           string `json:"url"`
}

// CityQuery strips a trailing parenthetical code from a destination
// display string ("Nador (NDR)" becomes "Nador").
func CityQuery(destination string) string {
	s := strings.TrimSpace(destination)
	if strings.HasSuffix(s, ")") {
		if idx := strings.LastIndex(s, " ("); idx != -1 {
			s = strings.TrimSpace(s[:idx])
		}
	}
	return s
}

// QueryCandidates builds the ordered location query list for a
// destination: the code-stripped city first, then the part before the
// first " - " qualifier when one is present.
func QueryCandidates(destination string) []string {
	primary := CityQuery(destination)
	queries := []string{primary}
	if idx := strings.Index(primary, " - "); idx != -1 {
		queries = append(queries, strings.TrimSpace(primary[:idx]))
	}
	return queries
}
