// Package store provides the in-memory historical observation store.
// Production deployments swap it for a database-backed implementation;
// the engine only sees the consumer-side interfaces it satisfies.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
)

// Memory keeps observations per location, ordered by timestamp.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]domain.Observation // keyed by Location.Key()
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]domain.Observation)}
}

// Put inserts observations, keeping each location's series sorted.
// Duplicate timestamps are allowed; the store does not deduplicate.
func (m *Memory) Put(observations ...domain.Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	touched := make(map[string]bool)
	for _, obs := range observations {
		key := obs.Location.Key()
		m.data[key] = append(m.data[key], obs)
		touched[key] = true
	}
	for key := range touched {
		series := m.data[key]
		sort.Slice(series, func(i, j int) bool {
			return series[i].Timestamp.Before(series[j].Timestamp)
		})
	}
}

// GetObservations returns the location's observations in [start, end],
// ordered by timestamp ascending. An unknown location yields an empty
// slice, not an error.
func (m *Memory) GetObservations(ctx context.Context, loc domain.Location, start, end time.Time) ([]domain.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	series := m.data[loc.Key()]
	var out []domain.Observation
	for _, obs := range series {
		if obs.Timestamp.Before(start) || obs.Timestamp.After(end) {
			continue
		}
		out = append(out, obs)
	}
	return out, nil
}

// GetActual returns a representative observation for the location on
// the given calendar day, for reconciling past forecasts. It picks the
// observation with the day's highest temperature so the comparison
// matches the predicted daily high. The boolean is false when the day
// has no data yet.
func (m *Memory) GetActual(ctx context.Context, loc domain.Location, date time.Time) (domain.Observation, bool, error) {
	dayStart := date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	observations, err := m.GetObservations(ctx, loc, dayStart, dayEnd)
	if err != nil {
		return domain.Observation{}, false, err
	}
	if len(observations) == 0 {
		return domain.Observation{}, false, nil
	}

	best := observations[0]
	var precipTotal float64
	for _, obs := range observations {
		precipTotal += obs.Precipitation
		if obs.Temperature > best.Temperature {
			best = obs
		}
	}
	// Precipitation is accumulated across the day so a dry afternoon
	// reading cannot mask a wet morning.
	best.Precipitation = precipTotal
	return best, true, nil
}

// Latest returns the most recent observation for the location.
func (m *Memory) Latest(loc domain.Location) (domain.Observation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	series := m.data[loc.Key()]
	if len(series) == 0 {
		return domain.Observation{}, false
	}
	return series[len(series)-1], true
}

// Locations returns every location with at least one observation.
func (m *Memory) Locations() []domain.Location {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]domain.Location, 0, len(keys))
	for _, key := range keys {
		out = append(out, m.data[key][0].Location)
	}
	return out
}
