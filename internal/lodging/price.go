package lodging

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var priceRunRe = regexp.MustCompile(`[\d.,]+`)

// ParseNightlyPrice extracts a comparable numeric value from a free-form
// nightly price string ("€77", "1.234,50"). Absent, empty or unparseable
// prices map to +Inf so they sort last. The last "." or "," followed by
// at most two digits is taken as the decimal separator; every other
// separator is treated as a thousands grouping mark.
func ParseNightlyPrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.Inf(1)
	}

	run := priceRunRe.FindString(raw)
	if run == "" {
		return math.Inf(1)
	}

	cleaned := normalizeSeparators(run)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}

func normalizeSeparators(run string) string {
	sep := strings.LastIndexAny(run, ".,")
	if sep == -1 {
		return run
	}

	frac := run[sep+1:]
	decimal := len(frac) > 0 && len(frac) <= 2

	var b strings.Builder
	for i, r := range run {
		switch r {
		case '.', ',':
			if i == sep && decimal {
				b.WriteByte('.')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
