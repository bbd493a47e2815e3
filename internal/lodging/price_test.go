package lodging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNightlyPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"euro symbol prefix", "€77", 77},
		{"plain integer", "120", 120},
		{"decimal point", "77.50", 77.50},
		{"decimal comma", "77,50", 77.50},
		{"thousands dot decimal comma", "1.234,50", 1234.50},
		{"thousands comma decimal dot", "1,234.50", 1234.50},
		{"thousands only", "1,234", 1234},
		{"trailing currency", "89 EUR", 89},
		{"single fraction digit", "9,5", 9.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNightlyPrice(tt.raw))
		})
	}
}

func TestParseNightlyPriceUnparseable(t *testing.T) {
	for _, raw := range []string{"", "  ", "n/a", "—", "free", "..."} {
		got := ParseNightlyPrice(raw)
		assert.True(t, math.IsInf(got, 1), "expected +Inf for %q, got %v", raw, got)
	}
}

func TestParseNightlyPriceIdempotentOverFormatted(t *testing.T) {
	// Parsing the formatted form of a parsed price yields the same value.
	v := ParseNightlyPrice("€77")
	assert.Equal(t, v, ParseNightlyPrice("77"))
}
