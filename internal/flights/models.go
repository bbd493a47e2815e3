// Package flights provides round-trip candidate discovery under
// weekday and time-of-day departure constraints.
package flights

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for flight search operations.
var (
	// ErrProviderUnavailable indicates the fare provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("fare provider unavailable")
	// ErrRateLimitExceeded indicates the fare API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidQuery indicates the fare query was rejected by the provider.
	ErrInvalidQuery = errors.New("invalid fare query")
)

// Provider defines the interface for round-trip fare providers.
type Provider interface {
	// SearchRoundTrips returns the cheapest outbound/inbound pairs for one
	// origin and outbound date, within the requested time and return windows.
	SearchRoundTrips(ctx context.Context, q RoundTripQuery) ([]RoundTrip, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Origin is a departure airport the search scans.
type Origin struct {
	// Code is the IATA airport code, e.g. "CGN".
	Code string `yaml:"code"`
	// Name is the display name, e.g. "Köln".
	Name string `yaml:"name"`
}

// Leg is one directional flight segment. Legs are immutable once produced
// by the provider.
type Leg struct {
	Origin          string    // IATA code
	OriginFull      string    // display name, may contain ", Country"
	Destination     string    // IATA code
	DestinationFull string    // display name
	DepartureTime   time.Time // date + time of departure
	Price           float64   // non-negative, provider currency
	Currency        string
}

// DepartureDate returns the leg's departure calendar date at midnight in the
// departure time's location.
func (l Leg) DepartureDate() time.Time {
	y, m, d := l.DepartureTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, l.DepartureTime.Location())
}

// RoundTrip is a provider-returned outbound/inbound leg pair.
type RoundTrip struct {
	Outbound Leg
	Inbound  Leg
}

// TripCandidate is an admissible round trip. Candidates are immutable after
// ranking.
type TripCandidate struct {
	Outbound      Leg
	Inbound       Leg
	OutboundPrice float64
}

// TotalPrice is the summed price of both legs, the primary ranking key.
func (t TripCandidate) TotalPrice() float64 {
	return t.Outbound.Price + t.Inbound.Price
}

// Nights is the number of nights at the destination.
func (t TripCandidate) Nights() int {
	return daysBetween(t.Outbound.DepartureDate(), t.Inbound.DepartureDate())
}

// RoundTripQuery is one fare provider query: a single origin and outbound
// date with an outbound time-of-day window and a return date range.
type RoundTripQuery struct {
	Origin            string
	OutboundDate      time.Time
	DepartureTimeFrom string // "HH:MM"
	DepartureTimeTo   string // "HH:MM"
	ReturnDateFrom    time.Time
	ReturnDateTo      time.Time
}

// Schedule is the admission rule: weekday to minimum departure hour.
// Weekdays absent from the schedule admit nothing.
type Schedule map[time.Weekday]int

// DefaultSchedule admits Thursday departures from 17:00 and Friday
// departures from 23:00.
func DefaultSchedule() Schedule {
	return Schedule{
		time.Thursday: 17,
		time.Friday:   23,
	}
}

// Admits reports whether a departure timestamp satisfies the rule.
func (s Schedule) Admits(t time.Time) bool {
	minHour, ok := s[t.Weekday()]
	if !ok {
		return false
	}
	return t.Hour() >= minHour
}

// Window returns the outbound time-of-day query window for a date, or
// ok=false when the date's weekday admits nothing.
func (s Schedule) Window(date time.Time) (from, to string, ok bool) {
	minHour, ok := s[date.Weekday()]
	if !ok {
		return "", "", false
	}
	return fmt.Sprintf("%02d:00", minHour), "23:59", true
}

// NightRange bounds the stay length in nights, inclusive.
type NightRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether n nights falls within the range.
func (r NightRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Error provides detailed error information from the fare provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// daysBetween returns the calendar days from date a to date b. Both
// arguments are expected to be midnight-normalized. The dates are compared
// in UTC so a DST transition inside the range cannot shave hours off a
// night and undercount the stay.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
