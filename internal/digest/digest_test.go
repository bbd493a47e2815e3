package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farescout/farescout/internal/enrich"
	"github.com/farescout/farescout/internal/flights"
	"github.com/farescout/farescout/internal/lodging"
)

func sampleTrip() enrich.EnrichedTrip {
	out := flights.Leg{
		Origin:          "CGN",
		OriginFull:      "Köln",
		Destination:     "ALC",
		DestinationFull: "Alicante, Alicante Airport",
		DepartureTime:   time.Date(2026, 3, 5, 18, 40, 0, 0, time.UTC),
		Price:           29.99,
		Currency:        "EUR",
	}
	in := flights.Leg{
		Origin:        "ALC",
		Destination:   "CGN",
		DepartureTime: time.Date(2026, 3, 8, 21, 55, 0, 0, time.UTC),
		Price:         34.50,
		Currency:      "EUR",
	}
	return enrich.EnrichedTrip{
		Candidate: flights.TripCandidate{
			Outbound:      out,
			Inbound:       in,
			OutboundPrice: out.Price,
		},
		DestinationCity: "Alicante",
		Arrival:         time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		Departure:       time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Offers: []lodging.Offer{
			{Name: "Hotel Sol", PricePerStay: "€231", URL: "https://example.com/sol"},
		},
		Weather: []any{
			map[string]any{"date": "2026-03-05", "temperature": 18.5, "condition": "sunny"},
		},
		Attractions: []any{
			map[string]any{"name": "Castillo de Santa Bárbara"},
		},
	}
}

func TestTextDigest(t *testing.T) {
	r := NewRenderer(Config{Adults: 2})
	got := r.Text([]enrich.EnrichedTrip{sampleTrip()})

	assert.Contains(t, got, "1. Alicante (64.49€) — 4 days, 3 nights")
	assert.Contains(t, got, "2026-03-05 Thursday 18:40")
	assert.Contains(t, got, "29.99€  CGN→ALC")
	assert.Contains(t, got, "34.50€  ALC→CGN")
	assert.Contains(t, got, "Hotel Sol  €231")
	assert.Contains(t, got, "https://example.com/sol")
	assert.Contains(t, got, "Castillo de Santa Bárbara")
	assert.Contains(t, got, "18.5°C — sunny")
	assert.Contains(t, got, "ryanair.com")
	// Known airports get a duration estimate on the leg line.
	assert.Contains(t, got, "(2h:")
}

func TestTextDigestExplicitNoneStates(t *testing.T) {
	trip := sampleTrip()
	trip.Offers = nil
	trip.Weather = nil
	trip.Attractions = nil

	r := NewRenderer(Config{})
	got := r.Text([]enrich.EnrichedTrip{trip})

	assert.Contains(t, got, "Weather: (none found)")
	assert.Contains(t, got, "Attractions: (none found)")
	assert.Contains(t, got, "(none found)")
}

func TestTextDigestEmpty(t *testing.T) {
	r := NewRenderer(Config{})
	assert.Equal(t, "(No round trips found.)\n", r.Text(nil))
}

func TestHTMLDigest(t *testing.T) {
	r := NewRenderer(Config{Adults: 2})
	got, err := r.HTML([]enrich.EnrichedTrip{sampleTrip()})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>"))
	assert.Contains(t, got, "Alicante (64.49€)")
	assert.Contains(t, got, `href="https://example.com/sol"`)
	assert.Contains(t, got, "Castillo de Santa Bárbara")
	// Booking link with escaped query parameters.
	assert.Contains(t, got, "originIata=CGN")
	assert.Contains(t, got, "destinationIata=ALC")
}

func TestHTMLDigestEscapesPayloadText(t *testing.T) {
	trip := sampleTrip()
	trip.Attractions = []any{map[string]any{"name": "<script>alert(1)</script>"}}

	r := NewRenderer(Config{})
	got, err := r.HTML([]enrich.EnrichedTrip{trip})
	require.NoError(t, err)

	assert.NotContains(t, got, "<script>alert(1)</script>")
	assert.Contains(t, got, "&lt;script&gt;")
}

func TestHTMLDigestEmpty(t *testing.T) {
	r := NewRenderer(Config{})
	got, err := r.HTML(nil)
	require.NoError(t, err)
	assert.Contains(t, got, "(No round trips found.)")
}

func TestJSONDigest(t *testing.T) {
	r := NewRenderer(Config{})
	got, err := r.JSON([]enrich.EnrichedTrip{sampleTrip()})
	require.NoError(t, err)
	assert.Contains(t, got, `"destination_city": "Alicante"`)
}

func TestBookingURL(t *testing.T) {
	got := BookingURL("CGN", "ALC",
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), 2)

	assert.True(t, strings.HasPrefix(got, bookingBaseURL+"?"))
	assert.Contains(t, got, "adults=2")
	assert.Contains(t, got, "dateOut=2026-03-05")
	assert.Contains(t, got, "dateIn=2026-03-08")
	assert.Contains(t, got, "isReturn=true")
	assert.Contains(t, got, "tpDestinationIata=ALC")
}

func TestWeatherLineShapes(t *testing.T) {
	line, ok := WeatherLine(map[string]any{
		"city":  "Alicante",
		"month": "March",
		"weather_summary": map[string]any{
			"avg_temperature_mean": 17.2,
			"avg_rain_mm":          22.0,
			"description":          "mild",
		},
	})
	require.True(t, ok)
	assert.Equal(t, "Alicante — March — avg 17.2°C — rain 22 mm — mild", line)

	line, ok = WeatherLine(map[string]any{"date": "2026-03-05", "temp": 18.0, "description": "sunny"})
	require.True(t, ok)
	assert.Equal(t, "2026-03-05 — 18°C — sunny", line)

	_, ok = WeatherLine(map[string]any{"error": "city not found"})
	assert.False(t, ok)

	// Unknown shape falls back to JSON.
	line, ok = WeatherLine(map[string]any{"humidity": 60.0})
	require.True(t, ok)
	assert.Contains(t, line, "humidity")
}

func TestAttractionLineShapes(t *testing.T) {
	assert.Equal(t, "Castillo", AttractionLine(map[string]any{"name": "Castillo"}))
	assert.Equal(t, "Museo", AttractionLine(map[string]any{"title": "Museo"}))
	assert.Equal(t, "Playa", AttractionLine(map[string]any{"attraction": "Playa"}))
	assert.Equal(t, "—", AttractionLine(map[string]any{"rating": 4.5}))
	assert.Equal(t, "plain string", AttractionLine("plain string"))
}
