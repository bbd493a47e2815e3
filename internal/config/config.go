// Package config loads the search plan that drives a pipeline run, from
// a YAML file with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/farescout/farescout/internal/flights"
)

// Providers holds the endpoints of the remote providers.
type Providers struct {
	// RyanairBaseURL overrides the fare finder base URL.
	RyanairBaseURL string `yaml:"ryanair_base_url"`

	// TrivagoEndpoint is the accommodation tool server URL.
	TrivagoEndpoint string `yaml:"trivago_endpoint"`

	// GeotempEndpoint is the weather/attractions tool server URL.
	GeotempEndpoint string `yaml:"geotemp_endpoint"`

	// Currency is the fare currency.
	Currency string `yaml:"currency"`
}

// Plan is one complete search and enrichment configuration.
type Plan struct {
	// Origins are the departure airports.
	Origins []flights.Origin `yaml:"origins"`

	// HorizonDays is how many days ahead to scan.
	HorizonDays int `yaml:"horizon_days"`

	// Schedule maps weekday names to the minimum departure hour.
	Schedule map[string]int `yaml:"schedule"`

	// Nights bounds the stay length.
	Nights flights.NightRange `yaml:"nights"`

	// CheapestTrips is how many ranked candidates get enriched.
	CheapestTrips int `yaml:"cheapest_trips"`

	// OffersPerTrip caps lodging offers per candidate.
	OffersPerTrip int `yaml:"offers_per_trip"`

	// Adults and Rooms are the lodging occupancy parameters.
	Adults int `yaml:"adults"`
	Rooms  int `yaml:"rooms"`

	// Workers bounds enrichment concurrency.
	Workers int `yaml:"workers"`

	// AttractionLimit caps attractions per destination.
	AttractionLimit int `yaml:"attraction_limit"`

	// Providers configures the remote endpoints.
	Providers Providers `yaml:"providers"`
}

// weekdayNames maps lowercase weekday names to time.Weekday.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DefaultPlan returns the reference configuration: Cologne and Weeze
// departures on Thursday evenings or late Fridays, 2 to 4 nights.
func DefaultPlan() *Plan {
	return &Plan{
		Origins: []flights.Origin{
			{Code: "CGN", Name: "Köln"},
			{Code: "NRN", Name: "Düsseldorf Weeze"},
		},
		HorizonDays: 120,
		Schedule: map[string]int{
			"thursday": 17,
			"friday":   23,
		},
		Nights:          flights.NightRange{Min: 2, Max: 4},
		CheapestTrips:   5,
		OffersPerTrip:   3,
		Adults:          2,
		Rooms:           1,
		Workers:         4,
		AttractionLimit: 10,
		Providers: Providers{
			TrivagoEndpoint: "https://mcp.trivago.com/mcp",
			GeotempEndpoint: "https://mcp-travel-data.onrender.com/sse",
			Currency:        "EUR",
		},
	}
}

// Load reads a plan from a YAML file, fills unset fields from the
// defaults and applies environment overrides. An empty path yields the
// default plan (still environment-overridable).
func Load(path string) (*Plan, error) {
	plan := DefaultPlan()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading plan file: %w", err)
		}
		var loaded Plan
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("parsing plan file: %w", err)
		}
		plan.merge(&loaded)
	}

	plan.applyEnv()

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// merge copies every set field of other over the plan.
func (p *Plan) merge(other *Plan) {
	if len(other.Origins) > 0 {
		p.Origins = other.Origins
	}
	if other.HorizonDays > 0 {
		p.HorizonDays = other.HorizonDays
	}
	if len(other.Schedule) > 0 {
		p.Schedule = other.Schedule
	}
	if other.Nights.Min > 0 || other.Nights.Max > 0 {
		p.Nights = other.Nights
	}
	if other.CheapestTrips > 0 {
		p.CheapestTrips = other.CheapestTrips
	}
	if other.OffersPerTrip > 0 {
		p.OffersPerTrip = other.OffersPerTrip
	}
	if other.Adults > 0 {
		p.Adults = other.Adults
	}
	if other.Rooms > 0 {
		p.Rooms = other.Rooms
	}
	if other.Workers > 0 {
		p.Workers = other.Workers
	}
	if other.AttractionLimit > 0 {
		p.AttractionLimit = other.AttractionLimit
	}
	if other.Providers.RyanairBaseURL != "" {
		p.Providers.RyanairBaseURL = other.Providers.RyanairBaseURL
	}
	if other.Providers.TrivagoEndpoint != "" {
		p.Providers.TrivagoEndpoint = other.Providers.TrivagoEndpoint
	}
	if other.Providers.GeotempEndpoint != "" {
		p.Providers.GeotempEndpoint = other.Providers.GeotempEndpoint
	}
	if other.Providers.Currency != "" {
		p.Providers.Currency = other.Providers.Currency
	}
}

// applyEnv overrides plan fields from FARESCOUT_* environment variables.
func (p *Plan) applyEnv() {
	if v := os.Getenv("FARESCOUT_ORIGINS"); v != "" {
		if origins := parseOrigins(v); len(origins) > 0 {
			p.Origins = origins
		}
	}
	intEnv("FARESCOUT_HORIZON_DAYS", &p.HorizonDays)
	intEnv("FARESCOUT_CHEAPEST_TRIPS", &p.CheapestTrips)
	intEnv("FARESCOUT_OFFERS_PER_TRIP", &p.OffersPerTrip)
	intEnv("FARESCOUT_ADULTS", &p.Adults)
	intEnv("FARESCOUT_ROOMS", &p.Rooms)
	intEnv("FARESCOUT_WORKERS", &p.Workers)
	intEnv("FARESCOUT_NIGHTS_MIN", &p.Nights.Min)
	intEnv("FARESCOUT_NIGHTS_MAX", &p.Nights.Max)

	if v := os.Getenv("FARESCOUT_RYANAIR_BASE_URL"); v != "" {
		p.Providers.RyanairBaseURL = v
	}
	if v := os.Getenv("FARESCOUT_TRIVAGO_ENDPOINT"); v != "" {
		p.Providers.TrivagoEndpoint = v
	}
	if v := os.Getenv("FARESCOUT_GEOTEMP_ENDPOINT"); v != "" {
		p.Providers.GeotempEndpoint = v
	}
	if v := os.Getenv("FARESCOUT_CURRENCY"); v != "" {
		p.Providers.Currency = v
	}
}

func intEnv(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// parseOrigins parses "CGN:Köln,NRN:Weeze" into origin pairs. A bare
// code without a name is allowed.
func parseOrigins(v string) []flights.Origin {
	var origins []flights.Origin
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, name, _ := strings.Cut(part, ":")
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = code
		}
		origins = append(origins, flights.Origin{Code: code, Name: name})
	}
	return origins
}

// Validate checks the plan for inconsistencies.
func (p *Plan) Validate() error {
	if len(p.Origins) == 0 {
		return fmt.Errorf("plan has no origins")
	}
	for _, o := range p.Origins {
		if len(o.Code) != 3 {
			return fmt.Errorf("origin code %q is not a 3-letter IATA code", o.Code)
		}
	}
	if p.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive, got %d", p.HorizonDays)
	}
	if len(p.Schedule) == 0 {
		return fmt.Errorf("plan has no schedule")
	}
	for day, hour := range p.Schedule {
		if _, ok := weekdayNames[strings.ToLower(day)]; !ok {
			return fmt.Errorf("unknown weekday %q in schedule", day)
		}
		if hour < 0 || hour > 23 {
			return fmt.Errorf("hour %d for %s is out of range", hour, day)
		}
	}
	if p.Nights.Min <= 0 || p.Nights.Max < p.Nights.Min {
		return fmt.Errorf("invalid night range [%d, %d]", p.Nights.Min, p.Nights.Max)
	}
	return nil
}

// FlightSchedule converts the plan's schedule to the search's weekday
// admission rule.
func (p *Plan) FlightSchedule() flights.Schedule {
	sched := make(flights.Schedule, len(p.Schedule))
	for day, hour := range p.Schedule {
		if wd, ok := weekdayNames[strings.ToLower(day)]; ok {
			sched[wd] = hour
		}
	}
	return sched
}
