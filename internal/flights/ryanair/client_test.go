package ryanair

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/flights"
)

func testQuery() flights.RoundTripQuery {
	return flights.RoundTripQuery{
		Origin:            "CGN",
		OutboundDate:      time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		DepartureTimeFrom: "17:00",
		DepartureTimeTo:   "23:59",
		ReturnDateFrom:    time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		ReturnDateTo:      time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}
}

func TestClient_SearchRoundTrips_Success(t *testing.T) {
	respBody, err := os.ReadFile("testdata/round_trip_fares.json")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/roundTripFares" {
			t.Errorf("expected path /roundTripFares, got %s", r.URL.Path)
		}

		q := r.URL.Query()
		if got := q.Get("departureAirportIataCode"); got != "CGN" {
			t.Errorf("expected origin CGN, got %q", got)
		}
		if got := q.Get("outboundDepartureDateFrom"); got != "2026-03-05" {
			t.Errorf("expected outbound date from 2026-03-05, got %q", got)
		}
		if got := q.Get("outboundDepartureDateTo"); got != "2026-03-05" {
			t.Errorf("expected outbound date to 2026-03-05, got %q", got)
		}
		if got := q.Get("inboundDepartureDateFrom"); got != "2026-03-07" {
			t.Errorf("expected inbound date from 2026-03-07, got %q", got)
		}
		if got := q.Get("inboundDepartureDateTo"); got != "2026-03-09" {
			t.Errorf("expected inbound date to 2026-03-09, got %q", got)
		}
		if got := q.Get("outboundDepartureTimeFrom"); got != "17:00" {
			t.Errorf("expected time from 17:00, got %q", got)
		}
		if got := q.Get("currency"); got != "EUR" {
			t.Errorf("expected currency EUR, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(respBody)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	trips, err := client.SearchRoundTrips(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The second fare in the fixture has a null outbound price and is skipped.
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}

	out := trips[0].Outbound
	if out.Origin != "CGN" {
		t.Errorf("expected outbound origin CGN, got %s", out.Origin)
	}
	if out.Destination != "ALC" {
		t.Errorf("expected outbound destination ALC, got %s", out.Destination)
	}
	if out.DestinationFull != "Alicante, Alicante" {
		t.Errorf("unexpected outbound destination full name: %q", out.DestinationFull)
	}
	if out.Price != 29.99 {
		t.Errorf("expected outbound price 29.99, got %v", out.Price)
	}
	if out.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", out.Currency)
	}
	wantDep := time.Date(2026, 3, 5, 18, 40, 0, 0, time.UTC)
	if !out.DepartureTime.Equal(wantDep) {
		t.Errorf("expected departure %v, got %v", wantDep, out.DepartureTime)
	}

	in := trips[0].Inbound
	if in.Origin != "ALC" {
		t.Errorf("expected inbound origin ALC, got %s", in.Origin)
	}
	if in.Price != 34.5 {
		t.Errorf("expected inbound price 34.5, got %v", in.Price)
	}
}

func TestClient_SearchRoundTrips_EmptyOrigin(t *testing.T) {
	client := NewClient(ClientConfig{Logger: zerolog.Nop()})

	q := testQuery()
	q.Origin = ""
	_, err := client.SearchRoundTrips(context.Background(), q)

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var flightsErr *flights.Error
	if !errors.As(err, &flightsErr) {
		t.Fatalf("expected flights.Error, got %T", err)
	}
	if !errors.Is(flightsErr.Err, flights.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", flightsErr.Err)
	}
}

func TestClient_SearchRoundTrips_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"code":"RATE_LIMIT","message":"Too many requests"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.SearchRoundTrips(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var flightsErr *flights.Error
	if !errors.As(err, &flightsErr) {
		t.Fatalf("expected flights.Error, got %T", err)
	}
	if !errors.Is(flightsErr.Err, flights.ErrRateLimitExceeded) {
		t.Errorf("expected ErrRateLimitExceeded, got %v", flightsErr.Err)
	}
}

func TestClient_SearchRoundTrips_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":"INTERNAL","message":"internal error"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.SearchRoundTrips(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var flightsErr *flights.Error
	if !errors.As(err, &flightsErr) {
		t.Fatalf("expected flights.Error, got %T", err)
	}
	if !errors.Is(flightsErr.Err, flights.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", flightsErr.Err)
	}
}

func TestClient_SearchRoundTrips_NetworkError(t *testing.T) {
	client := NewClient(ClientConfig{
		HTTPClient: &mockFailingClient{},
		Logger:     zerolog.Nop(),
	})

	_, err := client.SearchRoundTrips(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var flightsErr *flights.Error
	if !errors.As(err, &flightsErr) {
		t.Fatalf("expected flights.Error, got %T", err)
	}
	if !errors.Is(flightsErr.Err, flights.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", flightsErr.Err)
	}
}

func TestClient_Name(t *testing.T) {
	client := NewClient(ClientConfig{Logger: zerolog.Nop()})
	if client.Name() != ProviderName {
		t.Errorf("expected %s, got %s", ProviderName, client.Name())
	}
}

// mockHTTPClient wraps http.Client to implement HTTPDoer.
type mockHTTPClient struct {
	client *http.Client
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.client.Do(req)
}

// mockFailingClient simulates network errors.
type mockFailingClient struct{}

func (m *mockFailingClient) Do(req *http.Request) (*http.Response, error) {
	return nil, errors.New("network error")
}
