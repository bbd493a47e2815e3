package flights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mu      sync.Mutex
	queries []RoundTripQuery
	trips   map[string][]RoundTrip // keyed by origin|date
	err     error
}

func (m *mockProvider) SearchRoundTrips(_ context.Context, q RoundTripQuery) ([]RoundTrip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.err != nil {
		return nil, m.err
	}
	return m.trips[q.Origin+"|"+q.OutboundDate.Format("2006-01-02")], nil
}

func (m *mockProvider) Name() string { return "mock" }

// fixedNow returns a clock pinned to Monday 2026-03-02.
func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
}

func roundTrip(dest string, out time.Time, nights int, outPrice, inPrice float64) RoundTrip {
	return RoundTrip{
		Outbound: Leg{
			Destination:   dest,
			DepartureTime: out,
			Price:         outPrice,
			Currency:      "EUR",
		},
		Inbound: Leg{
			Origin:        dest,
			DepartureTime: out.AddDate(0, 0, nights).Add(-2 * time.Hour),
			Price:         inPrice,
			Currency:      "EUR",
		},
	}
}

func TestSearchQueriesOnlyScheduledWeekdays(t *testing.T) {
	provider := &mockProvider{}
	s := NewSearch(SearchConfig{
		Provider:    provider,
		Origins:     []Origin{{Code: "EIN", Name: "Eindhoven"}},
		HorizonDays: 14,
		Logger:      zerolog.Nop(),
		Now:         fixedNow,
	})

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	// Two weeks starting on a Monday contain two Thursdays and two Fridays.
	require.Len(t, provider.queries, 4)
	for _, q := range provider.queries {
		wd := q.OutboundDate.Weekday()
		assert.Contains(t, []time.Weekday{time.Thursday, time.Friday}, wd)
		assert.Equal(t, "23:59", q.DepartureTimeTo)
		switch wd {
		case time.Thursday:
			assert.Equal(t, "17:00", q.DepartureTimeFrom)
		case time.Friday:
			assert.Equal(t, "23:00", q.DepartureTimeFrom)
		}
		assert.Equal(t, q.OutboundDate.AddDate(0, 0, 2), q.ReturnDateFrom)
		assert.Equal(t, q.OutboundDate.AddDate(0, 0, 4), q.ReturnDateTo)
	}
}

func TestSearchTagsLegsWithOrigin(t *testing.T) {
	// First Thursday after the fixed clock.
	thu := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	provider := &mockProvider{
		trips: map[string][]RoundTrip{
			"EIN|2026-03-05": {roundTrip("ALC", thu, 3, 30, 40)},
		},
	}
	s := NewSearch(SearchConfig{
		Provider:    provider,
		Origins:     []Origin{{Code: "EIN", Name: "Eindhoven"}},
		HorizonDays: 7,
		Logger:      zerolog.Nop(),
		Now:         fixedNow,
	})

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "EIN", got[0].Outbound.Origin)
	assert.Equal(t, "Eindhoven", got[0].Outbound.OriginFull)
	assert.Equal(t, "EIN", got[0].Inbound.Destination)
	assert.Equal(t, "Eindhoven", got[0].Inbound.DestinationFull)
	assert.Equal(t, 70.0, got[0].TotalPrice())
}

func TestSearchRejectsCandidatesOutsideAdmissionWindow(t *testing.T) {
	thu := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	provider := &mockProvider{
		trips: map[string][]RoundTrip{
			"EIN|2026-03-05": {
				// Departure at 12:00 on a Thursday, before the 17:00 cutoff.
				roundTrip("ALC", thu.Add(12*time.Hour), 3, 20, 20),
				roundTrip("BGY", thu.Add(18*time.Hour), 3, 25, 25),
			},
		},
	}
	s := NewSearch(SearchConfig{
		Provider:    provider,
		Origins:     []Origin{{Code: "EIN", Name: "Eindhoven"}},
		HorizonDays: 7,
		Logger:      zerolog.Nop(),
		Now:         fixedNow,
	})

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BGY", got[0].Outbound.Destination)
}

func TestSearchRejectsCandidatesOutsideNightRange(t *testing.T) {
	thu := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	provider := &mockProvider{
		trips: map[string][]RoundTrip{
			"EIN|2026-03-05": {
				roundTrip("ALC", thu, 1, 20, 20),
				roundTrip("BGY", thu, 3, 25, 25),
				roundTrip("PMI", thu, 6, 15, 15),
			},
		},
	}
	s := NewSearch(SearchConfig{
		Provider:    provider,
		Origins:     []Origin{{Code: "EIN", Name: "Eindhoven"}},
		HorizonDays: 7,
		Nights:      NightRange{Min: 2, Max: 4},
		Logger:      zerolog.Nop(),
		Now:         fixedNow,
	})

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BGY", got[0].Outbound.Destination)
}

func TestSearchRanksByPriceThenDateThenDestination(t *testing.T) {
	thu := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	nextFri := time.Date(2026, 3, 13, 23, 30, 0, 0, time.UTC)
	provider := &mockProvider{
		trips: map[string][]RoundTrip{
			"EIN|2026-03-05": {
				roundTrip("PMI", thu, 3, 40, 40),
				roundTrip("ALC", thu, 3, 20, 20),
				roundTrip("BGY", thu, 3, 20, 20),
			},
			"EIN|2026-03-13": {
				roundTrip("ALC", nextFri, 3, 20, 20),
			},
		},
	}
	s := NewSearch(SearchConfig{
		Provider:    provider,
		Origins:     []Origin{{Code: "EIN", Name: "Eindhoven"}},
		HorizonDays: 14,
		Logger:      zerolog.Nop(),
		Now:         fixedNow,
	})

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Cheapest first, earlier date breaks the tie, destination code last.
	assert.Equal(t, "ALC", got[0].Outbound.Destination)
	assert.Equal(t, "2026-03-05", got[0].Outbound.DepartureDate().Format("2006-01-02"))
	assert.Equal(t, "BGY", got[1].Outbound.Destination)
	assert.Equal(t, "ALC", got[2].Outbound.Destination)
	assert.Equal(t, "2026-03-13", got[2].Outbound.DepartureDate().Format("2006-01-02"))
	assert.Equal(t, "PMI", got[3].Outbound.Destination)
}

func TestSearchNoOriginsReturnsEmpty(t *testing.T) {
	provider := &mockProvider{}
	s := NewSearch(SearchConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		Now:      fixedNow,
	})

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, provider.queries)
}

func TestSearchProviderErrorAbortsRun(t *testing.T) {
	wantErr := errors.New("upstream down")
	provider := &mockProvider{err: wantErr}
	s := NewSearch(SearchConfig{
		Provider:    provider,
		Origins:     []Origin{{Code: "EIN", Name: "Eindhoven"}},
		HorizonDays: 7,
		Logger:      zerolog.Nop(),
		Now:         fixedNow,
	})

	got, err := s.Run(context.Background())
	require.ErrorIs(t, err, wantErr)
	assert.Nil(t, got)
	// Aborted on the first query.
	assert.Len(t, provider.queries, 1)
}

func TestDefaultScheduleAdmits(t *testing.T) {
	sched := DefaultSchedule()

	assert.True(t, sched.Admits(time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC)))  // Thu 17:00
	assert.False(t, sched.Admits(time.Date(2026, 3, 5, 16, 59, 0, 0, time.UTC))) // Thu 16:59
	assert.True(t, sched.Admits(time.Date(2026, 3, 6, 23, 15, 0, 0, time.UTC))) // Fri 23:15
	assert.False(t, sched.Admits(time.Date(2026, 3, 6, 22, 0, 0, 0, time.UTC))) // Fri 22:00
	assert.False(t, sched.Admits(time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC))) // Sat
}

func TestTripCandidateNights(t *testing.T) {
	out := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	c := TripCandidate{
		Outbound: Leg{DepartureTime: out},
		Inbound:  Leg{DepartureTime: time.Date(2026, 3, 8, 6, 0, 0, 0, time.UTC)},
	}
	// Calendar dates, not 24h periods.
	assert.Equal(t, 3, c.Nights())
}

func TestTripCandidateNightsAcrossSpringForward(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// The stay spans 2026-03-29, when Berlin loses an hour. Elapsed time
	// is 23 hours short of four full days; the calendar still says four
	// nights.
	c := TripCandidate{
		Outbound: Leg{DepartureTime: time.Date(2026, 3, 26, 18, 0, 0, 0, berlin)},
		Inbound:  Leg{DepartureTime: time.Date(2026, 3, 30, 10, 0, 0, 0, berlin)},
	}
	assert.Equal(t, 4, c.Nights())
}

func TestSearchRejectsSpringForwardStayOverMaxNights(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	thu := time.Date(2026, 3, 26, 18, 0, 0, 0, berlin)
	over := RoundTrip{
		Outbound: Leg{Destination: "ALC", DepartureTime: thu, Price: 20, Currency: "EUR"},
		// Four calendar nights across the DST change: over Max even
		// though the elapsed hours round down to three days.
		Inbound: Leg{Origin: "ALC", DepartureTime: time.Date(2026, 3, 30, 10, 0, 0, 0, berlin), Price: 20, Currency: "EUR"},
	}
	within := RoundTrip{
		Outbound: Leg{Destination: "BGY", DepartureTime: thu, Price: 25, Currency: "EUR"},
		Inbound:  Leg{Origin: "BGY", DepartureTime: time.Date(2026, 3, 29, 10, 0, 0, 0, berlin), Price: 25, Currency: "EUR"},
	}
	provider := &mockProvider{
		trips: map[string][]RoundTrip{
			"EIN|2026-03-26": {over, within},
		},
	}
	s := NewSearch(SearchConfig{
		Provider:    provider,
		Origins:     []Origin{{Code: "EIN", Name: "Eindhoven"}},
		HorizonDays: 25,
		Nights:      NightRange{Min: 2, Max: 3},
		Logger:      zerolog.Nop(),
		Now:         fixedNow,
	})

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BGY", got[0].Outbound.Destination)
}
