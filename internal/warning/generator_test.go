package warning_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/couchcryptid/weather-prediction-service/internal/warning"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLocation = domain.Location{
	Latitude:  47.6062,
	Longitude: -122.3321,
	City:      "Seattle",
	Country:   "United States",
}

// calmForecast is a forecast that triggers no rule under default thresholds.
func calmForecast(date time.Time) domain.Forecast {
	return domain.Forecast{
		Location:           testLocation,
		Date:               date,
		TemperatureHigh:    18,
		TemperatureLow:     9,
		PrecipProbability:  0.1,
		PredictedWindSpeed: 10,
		Condition:          "Partly Cloudy",
		Confidence:         0.8,
	}
}

func newTestGenerator(t *testing.T) (*warning.Generator, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC))
	return warning.NewGenerator(warning.DefaultThresholds(), clock), clock
}

func TestGenerator_NoQualifyingConditions(t *testing.T) {
	g, _ := newTestGenerator(t)
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	warnings := g.AnalyzeForecasts([]domain.Forecast{calmForecast(date)})
	assert.Empty(t, warnings, "warnings are never fabricated")
}

func TestGenerator_HighWindThreshold(t *testing.T) {
	thresholds := warning.DefaultThresholds()
	thresholds.WindKMH = warning.Ladder{Low: 60, Moderate: 75, High: 90, Severe: 110}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC))
	g := warning.NewGenerator(thresholds, clock)
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	t.Run("70 km/h against a 60 km/h floor", func(t *testing.T) {
		f := calmForecast(date)
		f.PredictedWindSpeed = 70

		warnings := g.AnalyzeForecasts([]domain.Forecast{f})
		require.Len(t, warnings, 1)
		w := warnings[0]
		assert.Equal(t, domain.WarningHighWind, w.Type)
		assert.Equal(t, domain.SeverityLow, w.Severity)
		assert.NotEmpty(t, w.Recommendations)
		assert.NotEmpty(t, w.ID)
		assert.Equal(t, clock.Now().UTC(), w.IssuedAt)
		assert.Equal(t, date, w.StartTime)
		assert.Equal(t, date.Add(12*time.Hour), w.EndTime)
	})

	t.Run("10 km/h emits nothing", func(t *testing.T) {
		f := calmForecast(date)
		f.PredictedWindSpeed = 10
		assert.Empty(t, g.AnalyzeForecasts([]domain.Forecast{f}))
	})
}

func TestGenerator_SeverityLadders(t *testing.T) {
	g, _ := newTestGenerator(t)
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(*domain.Forecast)
		wantType domain.WarningType
		wantSev  domain.Severity
	}{
		{"heat low", func(f *domain.Forecast) { f.TemperatureHigh = 31 }, domain.WarningExtremeHeat, domain.SeverityLow},
		{"heat severe", func(f *domain.Forecast) { f.TemperatureHigh = 46 }, domain.WarningExtremeHeat, domain.SeveritySevere},
		{"cold moderate", func(f *domain.Forecast) { f.TemperatureLow = -12 }, domain.WarningExtremeCold, domain.SeverityModerate},
		{"cold severe", func(f *domain.Forecast) { f.TemperatureLow = -35 }, domain.WarningExtremeCold, domain.SeveritySevere},
		{"wind high", func(f *domain.Forecast) { f.PredictedWindSpeed = 80 }, domain.WarningHighWind, domain.SeverityHigh},
		{"flood moderate", func(f *domain.Forecast) { f.PrecipProbability = 0.6 }, domain.WarningFlood, domain.SeverityModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := calmForecast(date)
			tt.mutate(&f)

			warnings := g.AnalyzeForecasts([]domain.Forecast{f})
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.wantType, warnings[0].Type)
			assert.Equal(t, tt.wantSev, warnings[0].Severity)
			assert.NotEmpty(t, warnings[0].Recommendations)
		})
	}
}

func TestGenerator_MultipleConditionsIndependentWarnings(t *testing.T) {
	g, _ := newTestGenerator(t)
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	f := calmForecast(date)
	f.PredictedWindSpeed = 95 // wind: severe, also storm (with precip below)
	f.PrecipProbability = 1.0 // flood: high (50 mm), storm qualifier

	warnings := g.AnalyzeForecasts([]domain.Forecast{f})
	types := make(map[domain.WarningType]domain.Severity, len(warnings))
	for _, w := range warnings {
		types[w.Type] = w.Severity
	}

	require.Len(t, warnings, 3, "each qualifying condition yields its own warning")
	assert.Equal(t, domain.SeveritySevere, types[domain.WarningHighWind])
	assert.Equal(t, domain.SeverityHigh, types[domain.WarningFlood])
	assert.Equal(t, domain.SeveritySevere, types[domain.WarningStorm])
}

func TestGenerator_StormRequiresBothDimensions(t *testing.T) {
	g, _ := newTestGenerator(t)
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	t.Run("wind without precipitation", func(t *testing.T) {
		f := calmForecast(date)
		f.PredictedWindSpeed = 95
		for _, w := range g.AnalyzeForecasts([]domain.Forecast{f}) {
			assert.NotEqual(t, domain.WarningStorm, w.Type)
		}
	})

	t.Run("precipitation without wind", func(t *testing.T) {
		f := calmForecast(date)
		f.PrecipProbability = 0.9
		for _, w := range g.AnalyzeForecasts([]domain.Forecast{f}) {
			assert.NotEqual(t, domain.WarningStorm, w.Type)
		}
	})
}

func TestGenerator_AirQualityAdvisory(t *testing.T) {
	g, _ := newTestGenerator(t)
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	f := calmForecast(date)
	f.TemperatureHigh = 33
	f.PredictedWindSpeed = 3
	f.PrecipProbability = 0

	warnings := g.AnalyzeForecasts([]domain.Forecast{f})
	var found bool
	for _, w := range warnings {
		if w.Type == domain.WarningAirQuality {
			found = true
			assert.Equal(t, domain.SeverityLow, w.Severity)
			assert.NotEmpty(t, w.Recommendations)
		}
	}
	assert.True(t, found, "stagnant hot day raises an air quality advisory")
}

func TestGenerator_ClassifySeverity(t *testing.T) {
	g, _ := newTestGenerator(t)
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	t.Run("calm day classifies low", func(t *testing.T) {
		assert.Equal(t, domain.SeverityLow, g.ClassifySeverity(calmForecast(date)))
	})

	t.Run("highest dimension wins", func(t *testing.T) {
		f := calmForecast(date)
		f.TemperatureHigh = 31     // heat low
		f.PredictedWindSpeed = 100 // wind severe
		assert.Equal(t, domain.SeveritySevere, g.ClassifySeverity(f))
	})
}

func TestRecommendations_NeverEmpty(t *testing.T) {
	g, _ := newTestGenerator(t)
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	// Sweep magnitudes across every rule dimension; every emitted
	// warning must carry at least one recommendation.
	var forecasts []domain.Forecast
	for _, high := range []float64{31, 36, 41, 46} {
		f := calmForecast(date)
		f.TemperatureHigh = high
		forecasts = append(forecasts, f)
	}
	for _, low := range []float64{-1, -11, -21, -31} {
		f := calmForecast(date)
		f.TemperatureLow = low
		forecasts = append(forecasts, f)
	}
	for _, wind := range []float64{40, 60, 80, 100} {
		f := calmForecast(date)
		f.PredictedWindSpeed = wind
		forecasts = append(forecasts, f)
	}

	warnings := g.AnalyzeForecasts(forecasts)
	require.NotEmpty(t, warnings)
	for _, w := range warnings {
		assert.NotEmptyf(t, w.Recommendations, "%s/%s warning missing recommendations", w.Type, w.Severity)
	}
}
