package ryanair

// faresResponse is the round-trip fares payload from the fare finder API.
type faresResponse struct {
	Fares []fare `json:"fares"`
}

type fare struct {
	Outbound fareLeg `json:"outbound"`
	Inbound  fareLeg `json:"inbound"`
}

type fareLeg struct {
	DepartureAirport fareAirport `json:"departureAirport"`
	ArrivalAirport   fareAirport `json:"arrivalAirport"`
	DepartureDate    string      `json:"departureDate"`
	Price            *farePrice  `json:"price"`
}

type fareAirport struct {
	IataCode string   `json:"iataCode"`
	Name     string   `json:"name"`
	City     fareCity `json:"city"`
}

type fareCity struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

type farePrice struct {
	Value        float64 `json:"value"`
	CurrencyCode string  `json:"currencyCode"`
}

// fullName renders the airport as "City, Airport Name" when the city is
// known, matching the display format downstream code cuts at the comma.
func (a fareAirport) fullName() string {
	if a.City.Name != "" {
		return a.City.Name + ", " + a.Name
	}
	return a.Name
}

// errorResponse is the fare finder error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
