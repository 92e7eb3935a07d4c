package accuracy

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*Tracker, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testDate.Add(12 * time.Hour))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTracker(90, 0.70, 10, clock, logger), clock
}

func forecastFor(date time.Time, high float64, precipProb float64, condition string) domain.Forecast {
	return domain.Forecast{
		Location:          domain.Location{Latitude: 47.6, Longitude: -122.3, City: "Seattle"},
		Date:              date,
		TemperatureHigh:   high,
		TemperatureLow:    high - 8,
		PrecipProbability: precipProb,
		Condition:         condition,
	}
}

func actualFor(temp float64, precipMM float64, condition string) domain.Observation {
	return domain.Observation{
		Temperature:   temp,
		Precipitation: precipMM,
		Condition:     condition,
	}
}

func TestTracker_RecordOutcomeScoring(t *testing.T) {
	tracker, _ := newTestTracker(t)

	t.Run("temperature error is absolute", func(t *testing.T) {
		out := tracker.RecordOutcome(forecastFor(testDate, 25, 0.1, "Sunny"), actualFor(23, 0, "Sunny"))
		assert.InDelta(t, 2.0, out.TemperatureError, 1e-9)
	})

	t.Run("exact match scores full accuracy", func(t *testing.T) {
		out := tracker.RecordOutcome(forecastFor(testDate, 20, 0.8, "Rainy"), actualFor(20, 5, "Rainy"))
		assert.True(t, out.PrecipitationHit)
		assert.InDelta(t, 1.0, out.ConditionCredit, 1e-9)
		assert.InDelta(t, 1.0, out.OverallAccuracy, 1e-9)
	})

	t.Run("same condition group earns partial credit", func(t *testing.T) {
		out := tracker.RecordOutcome(forecastFor(testDate, 20, 0.8, "Rainy"), actualFor(20, 5, "Drizzle"))
		assert.InDelta(t, 0.7, out.ConditionCredit, 1e-9)
		// 0.4*1 + 0.3*1 + 0.3*0.7
		assert.InDelta(t, 0.91, out.OverallAccuracy, 1e-9)
	})

	t.Run("missed rain call zeroes the precipitation term", func(t *testing.T) {
		out := tracker.RecordOutcome(forecastFor(testDate, 20, 0.2, "Cloudy"), actualFor(20, 4, "Rainy"))
		assert.False(t, out.PrecipitationHit)
		assert.InDelta(t, 0.4, out.OverallAccuracy, 1e-9)
	})

	t.Run("temperature accuracy floors at zero", func(t *testing.T) {
		out := tracker.RecordOutcome(forecastFor(testDate, 35, 0.1, "Sunny"), actualFor(20, 0, "Sunny"))
		// 15°C off: temperature term zero, not negative.
		assert.InDelta(t, 0.6, out.OverallAccuracy, 1e-9)
	})
}

func TestTracker_DailyMetricsAggregation(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.RecordOutcome(forecastFor(testDate, 25, 0.1, "Sunny"), actualFor(23, 0, "Sunny"))
	tracker.RecordOutcome(forecastFor(testDate, 18, 0.8, "Rainy"), actualFor(14, 6, "Rainy"))

	metric, ok := tracker.DailyMetrics(testDate)
	require.True(t, ok)
	assert.Equal(t, 2, metric.SampleCount)
	assert.InDelta(t, 3.0, metric.TemperatureMAE, 1e-9)          // (2+4)/2
	assert.InDelta(t, 3.1622776601, metric.TemperatureRMSE, 1e-6) // sqrt((4+16)/2)
	assert.InDelta(t, 1.0, metric.PrecipitationAccuracy, 1e-9)

	_, ok = tracker.DailyMetrics(testDate.AddDate(0, 0, 1))
	assert.False(t, ok, "day without outcomes must be skipped, not zero-filled")
}

func TestTracker_RetentionWindow(t *testing.T) {
	tracker, clock := newTestTracker(t)

	tracker.RecordOutcome(forecastFor(testDate, 25, 0.1, "Sunny"), actualFor(25, 0, "Sunny"))
	_, ok := tracker.DailyMetrics(testDate)
	require.True(t, ok)

	clock.Advance(90 * 24 * time.Hour)
	tracker.RecordOutcome(forecastFor(testDate.AddDate(0, 0, 90), 20, 0.1, "Cloudy"), actualFor(20, 0, "Cloudy"))
	_, ok = tracker.DailyMetrics(testDate.AddDate(0, 0, 90))
	require.True(t, ok)

	metrics := tracker.Metrics(0)
	require.Len(t, metrics, 2, "a metric inserted today must survive 90 elapsed days")
	assert.Equal(t, testDate, metrics[0].Date)

	clock.Advance(24 * time.Hour)
	tracker.RecordOutcome(forecastFor(testDate.AddDate(0, 0, 91), 20, 0.1, "Cloudy"), actualFor(20, 0, "Cloudy"))
	_, ok = tracker.DailyMetrics(testDate.AddDate(0, 0, 91))
	require.True(t, ok)

	metrics = tracker.Metrics(0)
	require.Len(t, metrics, 2, "records beyond the retention window are compacted")
	assert.Equal(t, testDate.AddDate(0, 0, 90), metrics[0].Date)
}

func TestTracker_CheckAlertThreshold(t *testing.T) {
	t.Run("sparse window never alerts", func(t *testing.T) {
		tracker, _ := newTestTracker(t)
		for i := 0; i < 9; i++ {
			tracker.RecordOutcome(forecastFor(testDate, 40, 0.1, "Sunny"), actualFor(10, 5, "Rainy"))
		}
		_, fired := tracker.CheckAlertThreshold(7)
		assert.False(t, fired)
	})

	t.Run("degraded accuracy fires once enough samples exist", func(t *testing.T) {
		tracker, _ := newTestTracker(t)
		for i := 0; i < 10; i++ {
			tracker.RecordOutcome(forecastFor(testDate, 40, 0.1, "Sunny"), actualFor(10, 5, "Rainy"))
		}
		alert, fired := tracker.CheckAlertThreshold(7)
		require.True(t, fired)
		assert.Equal(t, 10, alert.SampleCount)
		assert.Equal(t, 0.70, alert.Floor)
		assert.Less(t, alert.OverallAccuracy, 0.70)
	})

	t.Run("healthy accuracy stays quiet", func(t *testing.T) {
		tracker, _ := newTestTracker(t)
		for i := 0; i < 12; i++ {
			tracker.RecordOutcome(forecastFor(testDate, 20, 0.8, "Rainy"), actualFor(20, 5, "Rainy"))
		}
		_, fired := tracker.CheckAlertThreshold(7)
		assert.False(t, fired)
	})
}

func TestTracker_RecentOverallAccuracy(t *testing.T) {
	tracker, _ := newTestTracker(t)

	overall, count := tracker.RecentOverallAccuracy(7)
	assert.Zero(t, overall)
	assert.Zero(t, count)

	tracker.RecordOutcome(forecastFor(testDate, 20, 0.8, "Rainy"), actualFor(20, 5, "Rainy"))
	tracker.RecordOutcome(forecastFor(testDate, 20, 0.2, "Cloudy"), actualFor(20, 4, "Rainy"))

	overall, count = tracker.RecentOverallAccuracy(7)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 0.7, overall, 1e-9) // (1.0 + 0.4) / 2
}
