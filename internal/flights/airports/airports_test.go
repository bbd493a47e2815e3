package airports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	c, ok := Lookup("CGN")
	assert.True(t, ok)
	assert.InDelta(t, 50.8659, c.Lat, 0.001)

	// Case and whitespace tolerant.
	_, ok = Lookup(" nrn ")
	assert.True(t, ok)

	_, ok = Lookup("XXX")
	assert.False(t, ok)
}

func TestDistanceKm(t *testing.T) {
	km, ok := DistanceKm("CGN", "ALC")
	assert.True(t, ok)
	// Cologne to Alicante is roughly 1500 km.
	assert.InDelta(t, 1500, km, 100)

	_, ok = DistanceKm("CGN", "XXX")
	assert.False(t, ok)
	_, ok = DistanceKm("XXX", "ALC")
	assert.False(t, ok)
}

func TestEstimateDuration(t *testing.T) {
	got := EstimateDuration("CGN", "ALC")
	// ~1500 km at 800 km/h plus 38 min overhead is about 2h30m.
	assert.Regexp(t, `^\(2h:[0-5][0-9]m\)$`, got)

	assert.Empty(t, EstimateDuration("CGN", "XXX"))
	assert.Empty(t, EstimateDuration("XXX", "ALC"))
}

func TestEstimateDurationSameAirport(t *testing.T) {
	// Zero distance still yields the fixed overhead.
	got := EstimateDuration("CGN", "CGN")
	assert.Equal(t, "(0h:38m)", got)
}
