package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarningMessage(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	w := domain.Warning{
		ID:       "warn-1",
		Location: domain.Location{Latitude: 47.6062, Longitude: -122.3321, City: "Seattle"},
		Type:     domain.WarningHighWind,
		Severity: domain.SeverityHigh,
		Title:    "High Wind Warning",
		Recommendations: []string{
			"Secure loose outdoor objects",
		},
		IssuedAt: now,
	}

	msg, err := warningMessage(w)
	require.NoError(t, err)

	assert.Equal(t, []byte(w.Location.Key()), msg.Key)
	assert.Contains(t, string(msg.Value), `"warning_type":"high_wind"`)
	assert.Contains(t, string(msg.Value), `"severity":"high"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("high_wind"), msg.Headers[0].Value)
	assert.Equal(t, "issued_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
