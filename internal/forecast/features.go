package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
)

// MinWindowObservations is the default floor for feature extraction:
// three days of hourly samples. Below it, extraction fails with
// domain.ErrInsufficientData instead of fabricating values.
const MinWindowObservations = 72

// Feature indices. Order is part of the model contract: a ModelState's
// normalizer and learners are fitted against exactly this layout.
const (
	fTempMean = iota
	fTempTrend
	fTempVariance
	fHumidityMean
	fHumidityTrend
	fPressureMean
	fPressureTrend
	fWindMean
	fPrecipTotal
	fCloudMean
	fSeasonSin
	fSeasonCos
	fHourOfDay
	fLagTempYesterday
	fLagTempLastWeek
	featureCount
)

// FeatureVector is an ordered numeric feature sequence derived from an
// observation window. Owned transiently by the prediction call.
type FeatureVector []float64

// Extractor turns observation windows into feature vectors.
type Extractor struct {
	minObservations int
}

// NewExtractor creates an Extractor. minObservations <= 0 selects the
// default floor.
func NewExtractor(minObservations int) *Extractor {
	if minObservations <= 0 {
		minObservations = MinWindowObservations
	}
	return &Extractor{minObservations: minObservations}
}

// MinObservations returns the extraction floor.
func (e *Extractor) MinObservations() int { return e.minObservations }

// Extract derives a feature vector for loc at asOf from the given window.
// The window must be ordered by timestamp ascending and contain at least
// the minimum number of observations.
func (e *Extractor) Extract(loc domain.Location, asOf time.Time, window []domain.Observation) (FeatureVector, error) {
	if len(window) < e.minObservations {
		return nil, fmt.Errorf("extract features for %q: %d observations, need %d: %w",
			loc.City, len(window), e.minObservations, domain.ErrInsufficientData)
	}

	temps := make([]float64, len(window))
	humidity := make([]float64, len(window))
	pressure := make([]float64, len(window))
	var windSum, precipSum, cloudSum float64
	for i, obs := range window {
		temps[i] = obs.Temperature
		humidity[i] = obs.Humidity
		pressure[i] = obs.Pressure
		windSum += obs.WindSpeed
		precipSum += obs.Precipitation
		cloudSum += obs.CloudCover
	}

	n := float64(len(window))
	tempMean := mean(temps)

	v := make(FeatureVector, featureCount)
	v[fTempMean] = tempMean
	v[fTempTrend] = slope(temps)
	v[fTempVariance] = variance(temps, tempMean)
	v[fHumidityMean] = mean(humidity)
	v[fHumidityTrend] = slope(humidity)
	v[fPressureMean] = mean(pressure)
	v[fPressureTrend] = slope(pressure)
	v[fWindMean] = windSum / n
	v[fPrecipTotal] = precipSum
	v[fCloudMean] = cloudSum / n

	doy := float64(asOf.YearDay())
	v[fSeasonSin] = sin2pi(doy)
	v[fSeasonCos] = cos2pi(doy)
	v[fHourOfDay] = float64(asOf.Hour())

	v[fLagTempYesterday] = lagTemperature(window, asOf.Add(-24*time.Hour), tempMean)
	v[fLagTempLastWeek] = lagTemperature(window, asOf.Add(-7*24*time.Hour), tempMean)

	return v, nil
}

// lagTemperature finds the observation nearest to target within 90
// minutes and returns its temperature, falling back to the window mean.
func lagTemperature(window []domain.Observation, target time.Time, fallback float64) float64 {
	const tolerance = 90 * time.Minute
	best := fallback
	bestDelta := tolerance
	for _, obs := range window {
		delta := obs.Timestamp.Sub(target)
		if delta < 0 {
			delta = -delta
		}
		if delta <= bestDelta {
			best = obs.Temperature
			bestDelta = delta
		}
	}
	return best
}

// sin2pi and cos2pi encode day-of-year as a point on the annual cycle,
// so December 31 and January 1 land next to each other.
func sin2pi(dayOfYear float64) float64 {
	return math.Sin(2 * math.Pi * dayOfYear / 365.25)
}

func cos2pi(dayOfYear float64) float64 {
	return math.Cos(2 * math.Pi * dayOfYear / 365.25)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values)-1)
}

// slope is the least-squares trend over sample index, i.e. units per
// sample (per hour for hourly windows).
func slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	xMean := (n - 1) / 2
	yMean := mean(values)
	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
