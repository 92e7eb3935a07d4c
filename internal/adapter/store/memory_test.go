package store

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seattle = domain.Location{Latitude: 47.6062, Longitude: -122.3321, City: "Seattle", Country: "US"}

func obsAt(ts time.Time, temp, precip float64) domain.Observation {
	return domain.Observation{
		Location:      seattle,
		Timestamp:     ts,
		Temperature:   temp,
		Precipitation: precip,
		Condition:     "Cloudy",
	}
}

func TestMemory_GetObservationsOrderedWindow(t *testing.T) {
	s := NewMemory()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// Inserted out of order.
	s.Put(obsAt(base.Add(2*time.Hour), 11, 0))
	s.Put(obsAt(base, 9, 0))
	s.Put(obsAt(base.Add(time.Hour), 10, 0))
	s.Put(obsAt(base.Add(48*time.Hour), 14, 0))

	got, err := s.GetObservations(context.Background(), seattle, base, base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Timestamp.Before(got[1].Timestamp))
	assert.True(t, got[1].Timestamp.Before(got[2].Timestamp))

	other := domain.Location{Latitude: 45.5, Longitude: -122.6, City: "Portland"}
	got, err = s.GetObservations(context.Background(), other, base, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemory_GetActual(t *testing.T) {
	s := NewMemory()
	day := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	s.Put(
		obsAt(day.Add(6*time.Hour), 8, 2.5),
		obsAt(day.Add(14*time.Hour), 15, 0),
		obsAt(day.Add(20*time.Hour), 12, 1.0),
	)

	actual, ok, err := s.GetActual(context.Background(), seattle, day)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 15.0, actual.Temperature, 1e-9, "daily high is the warmest reading")
	assert.InDelta(t, 3.5, actual.Precipitation, 1e-9, "precipitation accumulates across the day")

	_, ok, err = s.GetActual(context.Background(), seattle, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Latest(t *testing.T) {
	s := NewMemory()
	_, ok := s.Latest(seattle)
	assert.False(t, ok)

	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	s.Put(obsAt(base, 9, 0), obsAt(base.Add(time.Hour), 10, 0))

	latest, ok := s.Latest(seattle)
	require.True(t, ok)
	assert.Equal(t, base.Add(time.Hour), latest.Timestamp)
}

func TestMemory_Locations(t *testing.T) {
	s := NewMemory()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	portland := domain.Location{Latitude: 45.5152, Longitude: -122.6784, City: "Portland", Country: "US"}

	s.Put(obsAt(base, 9, 0))
	s.Put(domain.Observation{Location: portland, Timestamp: base, Temperature: 11})

	locations := s.Locations()
	require.Len(t, locations, 2)
}
