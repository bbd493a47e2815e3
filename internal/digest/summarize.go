package digest

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	maxWeatherLines    = 7
	maxAttractionLines = 10
)

// WeatherLine renders one weather record for display. Handles the month
// summary shape ({city, month, weather_summary}) and the daily shape
// ({date, temperature, condition}); anything else falls back to its JSON
// form. Returns false for provider error records.
func WeatherLine(item any) (string, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return fmt.Sprint(item), true
	}
	if errVal, ok := m["error"]; ok && errVal != nil && errVal != "" {
		return "", false
	}

	if summary, ok := m["weather_summary"].(map[string]any); ok {
		var parts []string
		if city, ok := m["city"]; ok {
			parts = append(parts, fmt.Sprint(city))
		}
		if month, ok := m["month"]; ok {
			parts = append(parts, fmt.Sprint(month))
		}
		if temp := firstValue(summary, "avg_temperature_mean", "avg_temp"); temp != nil {
			parts = append(parts, fmt.Sprintf("avg %v°C", temp))
		}
		if rain := firstValue(summary, "avg_rain_mm", "rain_mm"); rain != nil {
			parts = append(parts, fmt.Sprintf("rain %v mm", rain))
		}
		if desc, ok := summary["description"]; ok {
			parts = append(parts, fmt.Sprint(desc))
		}
		if len(parts) > 0 {
			return strings.Join(parts, " — "), true
		}
	}

	var parts []string
	if date, ok := m["date"]; ok {
		parts = append(parts, fmt.Sprint(date))
	}
	if temp := firstValue(m, "temperature", "temp"); temp != nil {
		parts = append(parts, fmt.Sprintf("%v°C", temp))
	}
	if cond := firstValue(m, "condition", "description"); cond != nil {
		parts = append(parts, fmt.Sprint(cond))
	}
	if len(parts) > 0 {
		return strings.Join(parts, " — "), true
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// AttractionLine renders one attraction record for display.
func AttractionLine(item any) string {
	m, ok := item.(map[string]any)
	if !ok {
		return fmt.Sprint(item)
	}
	if name := firstValue(m, "name", "title", "attraction"); name != nil {
		return fmt.Sprint(name)
	}
	return "—"
}

// weatherLines renders the displayable records among the first
// maxWeatherLines weather samples.
func weatherLines(samples []any) []string {
	if len(samples) > maxWeatherLines {
		samples = samples[:maxWeatherLines]
	}
	var lines []string
	for _, s := range samples {
		if line, ok := WeatherLine(s); ok && line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// attractionLines renders the first maxAttractionLines attraction records.
func attractionLines(entries []any) []string {
	if len(entries) > maxAttractionLines {
		entries = entries[:maxAttractionLines]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, AttractionLine(e))
	}
	return lines
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}
