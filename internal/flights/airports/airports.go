// Package airports provides airport coordinate lookups and flight duration
// estimates based on great-circle distance.
package airports

import (
	"fmt"
	"math"
	"strings"

	"github.com/umahmood/haversine"
)

const (
	// cruiseSpeedKmh is the assumed average cruise speed.
	cruiseSpeedKmh = 800.0

	// overheadMinutes covers taxi, takeoff and landing.
	overheadMinutes = 38.0
)

// coordinates maps IATA codes to airport positions. Covers the Ryanair
// network airports relevant to the default search origins plus their
// common destinations.
var coordinates = map[string]haversine.Coord{
	"AGP": {Lat: 36.6749, Lon: -4.4991},  // Malaga
	"ALC": {Lat: 38.2822, Lon: -0.5582},  // Alicante
	"ATH": {Lat: 37.9364, Lon: 23.9445},  // Athens
	"BCN": {Lat: 41.2971, Lon: 2.0785},   // Barcelona
	"BGY": {Lat: 45.6739, Lon: 9.7042},   // Milan Bergamo
	"BLQ": {Lat: 44.5354, Lon: 11.2887},  // Bologna
	"BRI": {Lat: 41.1389, Lon: 16.7606},  // Bari
	"BUD": {Lat: 47.4369, Lon: 19.2556},  // Budapest
	"CGN": {Lat: 50.8659, Lon: 7.1427},   // Cologne Bonn
	"CIA": {Lat: 41.7994, Lon: 12.5949},  // Rome Ciampino
	"CRL": {Lat: 50.4592, Lon: 4.4538},   // Brussels Charleroi
	"DUB": {Lat: 53.4213, Lon: -6.2701},  // Dublin
	"EIN": {Lat: 51.4500, Lon: 5.3747},   // Eindhoven
	"FAO": {Lat: 37.0144, Lon: -7.9659},  // Faro
	"FCO": {Lat: 41.8003, Lon: 12.2389},  // Rome Fiumicino
	"HHN": {Lat: 49.9487, Lon: 7.2639},   // Frankfurt Hahn
	"IBZ": {Lat: 38.8729, Lon: 1.3731},   // Ibiza
	"KRK": {Lat: 50.0777, Lon: 19.7848},  // Krakow
	"LIS": {Lat: 38.7813, Lon: -9.1359},  // Lisbon
	"MAD": {Lat: 40.4719, Lon: -3.5626},  // Madrid
	"MLA": {Lat: 35.8575, Lon: 14.4775},  // Malta
	"NAP": {Lat: 40.8860, Lon: 14.2908},  // Naples
	"NRN": {Lat: 51.6024, Lon: 6.1422},   // Weeze
	"OPO": {Lat: 41.2481, Lon: -8.6814},  // Porto
	"PMI": {Lat: 39.5517, Lon: 2.7388},   // Palma de Mallorca
	"PMO": {Lat: 38.1760, Lon: 13.0910},  // Palermo
	"PSA": {Lat: 43.6839, Lon: 10.3927},  // Pisa
	"RAK": {Lat: 31.6069, Lon: -8.0363},  // Marrakesh
	"STN": {Lat: 51.8850, Lon: 0.2350},   // London Stansted
	"SVQ": {Lat: 37.4180, Lon: -5.8931},  // Seville
	"TFS": {Lat: 28.0445, Lon: -16.5725}, // Tenerife South
	"VCE": {Lat: 45.5053, Lon: 12.3519},  // Venice
	"VIE": {Lat: 48.1103, Lon: 16.5697},  // Vienna
	"VLC": {Lat: 39.4893, Lon: -0.4816},  // Valencia
	"WMI": {Lat: 52.4511, Lon: 20.6518},  // Warsaw Modlin
	"ZAG": {Lat: 45.7429, Lon: 16.0688},  // Zagreb
}

// Lookup returns the coordinates for an IATA code.
func Lookup(iata string) (haversine.Coord, bool) {
	c, ok := coordinates[strings.ToUpper(strings.TrimSpace(iata))]
	return c, ok
}

// DistanceKm returns the great-circle distance in kilometers between two
// airports. Returns false when either airport is unknown.
func DistanceKm(origin, destination string) (float64, bool) {
	from, ok := Lookup(origin)
	if !ok {
		return 0, false
	}
	to, ok := Lookup(destination)
	if !ok {
		return 0, false
	}
	_, km := haversine.Distance(from, to)
	return km, true
}

// EstimateDuration returns an estimated flight duration between two
// airports formatted as "(Xh:YYm)". Unknown airports yield an empty
// string.
func EstimateDuration(origin, destination string) string {
	km, ok := DistanceKm(origin, destination)
	if !ok {
		return ""
	}

	totalMinutes := km/cruiseSpeedKmh*60 + overheadMinutes
	h := int(totalMinutes) / 60
	m := int(math.Round(math.Mod(totalMinutes, 60)))
	if m == 60 {
		h++
		m = 0
	}
	if h == 0 && m == 0 {
		return ""
	}
	return fmt.Sprintf("(%dh:%02dm)", h, m)
}
