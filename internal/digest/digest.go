// Package digest renders enriched trips as plain text and HTML.
package digest

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/farescout/farescout/internal/enrich"
	"github.com/farescout/farescout/internal/flights"
	"github.com/farescout/farescout/internal/flights/airports"
)

const (
	// Title heads every digest.
	Title = "Fly cheap, stay cheap — your daily flight + hotel deals"

	tagline = "Best-priced round trips under your departure schedule and the lowest hotel rates per destination."

	legSep = "  |  "
)

// Config holds configuration for the digest renderer.
type Config struct {
	// Adults feeds the booking deep links.
	Adults int
}

// Renderer builds trip digests.
type Renderer struct {
	adults int
}

// NewRenderer creates a digest renderer.
func NewRenderer(cfg Config) *Renderer {
	adults := cfg.Adults
	if adults <= 0 {
		adults = 2
	}
	return &Renderer{adults: adults}
}

// hotelView is one lodging offer prepared for rendering.
type hotelView struct {
	Name         string
	URL          string
	PricePerStay string
}

// tripView is one enriched trip prepared for rendering.
type tripView struct {
	Index       int
	Header      string
	OutboundLeg string
	InboundLeg  string
	BookingURL  string
	Weather     []string
	Attractions []string
	Hotels      []hotelView
}

func legLine(l flights.Leg) string {
	dur := airports.EstimateDuration(l.Origin, l.Destination)
	if dur != "" {
		dur = " " + dur
	}
	return fmt.Sprintf("%s%s  %.2f€  %s→%s",
		l.DepartureTime.Format("2006-01-02 Monday 15:04"), dur, l.Price, l.Origin, l.Destination)
}

func (r *Renderer) tripViews(trips []enrich.EnrichedTrip) []tripView {
	views := make([]tripView, 0, len(trips))
	for i, trip := range trips {
		c := trip.Candidate
		nights := c.Nights()
		days := nights + 1

		v := tripView{
			Index: i + 1,
			Header: fmt.Sprintf("%s (%.2f€) — %d days, %d nights",
				trip.DestinationCity, c.TotalPrice(), days, nights),
			OutboundLeg: legLine(c.Outbound),
			InboundLeg:  legLine(c.Inbound),
			BookingURL: BookingURL(c.Outbound.Origin, c.Outbound.Destination,
				trip.Arrival, trip.Departure, r.adults),
			Weather:     weatherLines(trip.Weather),
			Attractions: attractionLines(trip.Attractions),
		}

		for _, offer := range trip.Offers {
			name := offer.Name
			if name == "" {
				name = "—"
			}
			v.Hotels = append(v.Hotels, hotelView{
				Name:         name,
				URL:          offer.URL,
				PricePerStay: offer.PricePerStay,
			})
		}
		views = append(views, v)
	}
	return views
}

// Text renders the digest as plain text. Missing lodging, weather or
// attraction data shows up as an explicit "(none found)" state.
func (r *Renderer) Text(trips []enrich.EnrichedTrip) string {
	if len(trips) == 0 {
		return "(No round trips found.)\n"
	}

	var b strings.Builder
	b.WriteString(Title + "\n\n")

	for _, v := range r.tripViews(trips) {
		fmt.Fprintf(&b, "%d. %s\n", v.Index, v.Header)
		b.WriteString("   Flight\n")
		b.WriteString("   " + v.OutboundLeg + legSep + v.InboundLeg + "\n")
		b.WriteString("   Book: " + v.BookingURL + "\n")

		if len(v.Weather) > 0 {
			b.WriteString("   Weather:\n")
			for _, line := range v.Weather {
				b.WriteString("     " + line + "\n")
			}
		} else {
			b.WriteString("   Weather: (none found)\n")
		}

		if len(v.Attractions) > 0 {
			b.WriteString("   Attractions:\n")
			for _, line := range v.Attractions {
				b.WriteString("     • " + line + "\n")
			}
		} else {
			b.WriteString("   Attractions: (none found)\n")
		}

		b.WriteString("   Hotels:\n")
		if len(v.Hotels) == 0 {
			b.WriteString("   (none found)\n")
		}
		for j, h := range v.Hotels {
			fmt.Fprintf(&b, "   %d. %s  %s\n", j+1, h.Name, h.PricePerStay)
			if h.URL != "" {
				b.WriteString("      " + h.URL + "\n")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// JSON renders the digest as a JSON document.
func (r *Renderer) JSON(trips []enrich.EnrichedTrip) (string, error) {
	data, err := json.MarshalIndent(trips, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling digest: %w", err)
	}
	return string(data), nil
}

var htmlTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 1rem 2rem; max-width: 900px; }
    h1 { font-size: 1.35rem; color: #073590; margin-bottom: 0.25rem; }
    .tagline { color: #555; font-size: 0.95rem; line-height: 1.4; margin-bottom: 1rem; }
    .trip { margin: 1rem 0; padding: 0.75rem; border: 1px solid #ccc; border-radius: 6px; }
    .trip-header { font-weight: bold; margin-bottom: 0.25rem; }
    a.trip-link { color: #073590; text-decoration: none; }
    a.trip-link:hover { text-decoration: underline; }
    .hotel { margin: 0.2rem 0; }
    .hotel a { color: #073590; }
    .flight-title, .weather-title, .attractions-title, .hotels-title { font-weight: 600; margin-bottom: 0.2rem; }
    .flight, .weather, .attractions, .hotels { margin-top: 0.5rem; font-size: 0.9rem; color: #444; }
    .none { color: #888; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p class="tagline">{{.Tagline}}</p>
{{- if not .Trips}}
  <p>(No round trips found.)</p>
{{- end}}
{{- range .Trips}}
  <div class="trip">
    <div class="trip-header">{{.Header}}</div>
    <div class="flight">
      <div class="flight-title">Flight</div>
      <a class="trip-link" href="{{.BookingURL}}" target="_blank" rel="noopener">{{.OutboundLeg}}  |  {{.InboundLeg}}</a>
    </div>
{{- if .Weather}}
    <div class="weather">
      <div class="weather-title">Weather</div>
{{- range .Weather}}
      <div>{{.}}</div>
{{- end}}
    </div>
{{- end}}
{{- if .Attractions}}
    <div class="attractions">
      <div class="attractions-title">Attractions</div>
{{- range .Attractions}}
      <div>{{.}}</div>
{{- end}}
    </div>
{{- end}}
    <div class="hotels">
      <div class="hotels-title">Hotels</div>
{{- if not .Hotels}}
      <div class="none">(none found)</div>
{{- end}}
{{- range .Hotels}}
{{- if .URL}}
      <div class="hotel"><a href="{{.URL}}" target="_blank" rel="noopener">{{.Name}}</a> {{.PricePerStay}}</div>
{{- else}}
      <div class="hotel">{{.Name}} {{.PricePerStay}}</div>
{{- end}}
{{- end}}
    </div>
  </div>
{{- end}}
</body>
</html>
`))

// HTML renders the digest as a standalone HTML document.
func (r *Renderer) HTML(trips []enrich.EnrichedTrip) (string, error) {
	var b strings.Builder
	err := htmlTemplate.Execute(&b, struct {
		Title   string
		Tagline string
		Trips   []tripView
	}{
		Title:   Title,
		Tagline: tagline,
		Trips:   r.tripViews(trips),
	})
	if err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return b.String(), nil
}
