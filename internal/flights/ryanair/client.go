// Package ryanair provides a flight fare provider backed by the Ryanair
// fare finder API.
package ryanair

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/flights"
	"github.com/farescout/farescout/internal/provider/resilience"
)

const (
	// ProviderName identifies this fare provider.
	ProviderName = "ryanair"

	// DefaultBaseURL is the fare finder API base URL.
	DefaultBaseURL = "https://services-api.ryanair.com/farfnd/v4"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// dateFormat is the wire format for date query parameters.
	dateFormat = "2006-01-02"

	// departureTimeFormat parses leg departure timestamps.
	departureTimeFormat = "2006-01-02T15:04:05"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the fare finder client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// Currency is the fare currency (optional, defaults to EUR).
	Currency string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Ryanair fare finder API client.
type Client struct {
	baseURL    string
	currency   string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new fare finder client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	currency := cfg.Currency
	if currency == "" {
		currency = "EUR"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		currency:   currency,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// SearchRoundTrips retrieves the cheapest round trips for one origin and
// outbound date under the query's time and return-date windows.
func (c *Client) SearchRoundTrips(ctx context.Context, q flights.RoundTripQuery) ([]flights.RoundTrip, error) {
	if q.Origin == "" {
		return nil, &flights.Error{
			Provider: ProviderName,
			Code:     "INVALID_ORIGIN",
			Message:  "origin airport code is required",
			Err:      flights.ErrInvalidQuery,
		}
	}

	params := url.Values{}
	params.Set("departureAirportIataCode", q.Origin)
	params.Set("outboundDepartureDateFrom", q.OutboundDate.Format(dateFormat))
	params.Set("outboundDepartureDateTo", q.OutboundDate.Format(dateFormat))
	params.Set("inboundDepartureDateFrom", q.ReturnDateFrom.Format(dateFormat))
	params.Set("inboundDepartureDateTo", q.ReturnDateTo.Format(dateFormat))
	if q.DepartureTimeFrom != "" {
		params.Set("outboundDepartureTimeFrom", q.DepartureTimeFrom)
	}
	if q.DepartureTimeTo != "" {
		params.Set("outboundDepartureTimeTo", q.DepartureTimeTo)
	}
	params.Set("currency", c.currency)

	reqURL := fmt.Sprintf("%s/roundTripFares?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("origin", q.Origin).
		Str("outbound_date", q.OutboundDate.Format(dateFormat)).
		Str("time_from", q.DepartureTimeFrom).
		Msg("requesting round trip fares")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &flights.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach fare provider",
			Err:      flights.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var fares faresResponse
	if err := json.Unmarshal(respBody, &fares); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	trips := c.toRoundTrips(&fares)

	c.logger.Debug().
		Str("origin", q.Origin).
		Int("trip_count", len(trips)).
		Msg("received round trip fares")

	return trips, nil
}

// handleErrorResponse maps fare finder error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &flights.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("fare provider returned status %d", statusCode),
			Err:      flights.ErrProviderUnavailable,
		}
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return &flights.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      flights.ErrRateLimitExceeded,
		}
	case http.StatusBadRequest:
		return &flights.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  apiErr.Message,
			Err:      flights.ErrInvalidQuery,
		}
	default:
		if statusCode >= 500 {
			return &flights.Error{
				Provider: ProviderName,
				Code:     fmt.Sprintf("SERVER_%d", statusCode),
				Message:  "fare provider is temporarily unavailable",
				Err:      flights.ErrProviderUnavailable,
			}
		}
		return &flights.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  apiErr.Message,
			Err:      flights.ErrProviderUnavailable,
		}
	}
}

// toRoundTrips converts the fare payload to domain round trips. Fares
// missing a price or carrying an unparseable timestamp are skipped.
func (c *Client) toRoundTrips(resp *faresResponse) []flights.RoundTrip {
	trips := make([]flights.RoundTrip, 0, len(resp.Fares))

	for i := range resp.Fares {
		f := &resp.Fares[i]
		outbound, ok := toLeg(&f.Outbound)
		if !ok {
			continue
		}
		inbound, ok := toLeg(&f.Inbound)
		if !ok {
			continue
		}
		trips = append(trips, flights.RoundTrip{Outbound: outbound, Inbound: inbound})
	}

	return trips
}

func toLeg(l *fareLeg) (flights.Leg, bool) {
	if l.Price == nil {
		return flights.Leg{}, false
	}
	depTime, err := time.Parse(departureTimeFormat, l.DepartureDate)
	if err != nil {
		return flights.Leg{}, false
	}

	return flights.Leg{
		Origin:          l.DepartureAirport.IataCode,
		OriginFull:      l.DepartureAirport.fullName(),
		Destination:     l.ArrivalAirport.IataCode,
		DestinationFull: l.ArrivalAirport.fullName(),
		DepartureTime:   depTime,
		Price:           l.Price.Value,
		Currency:        l.Price.CurrencyCode,
	}, true
}
