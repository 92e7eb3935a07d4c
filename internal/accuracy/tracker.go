// Package accuracy reconciles past forecasts against later-arriving
// observations and keeps an append-only ledger of daily error metrics.
package accuracy

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Composite accuracy weights, matching the calibration the confidence
// estimator was tuned against.
const (
	temperatureWeight   = 0.4
	precipitationWeight = 0.3
	conditionWeight     = 0.3

	// temperatureFullErrorC is the absolute error at which temperature
	// accuracy reaches zero; accuracy falls off linearly up to it.
	temperatureFullErrorC = 10.0

	// rainProbabilityThreshold turns a predicted probability into a
	// binary rain call for scoring.
	rainProbabilityThreshold = 0.5

	// partialConditionCredit is awarded when predicted and actual
	// conditions differ but belong to the same group.
	partialConditionCredit = 0.7
)

// Outcome is one reconciled forecast/actual pair.
type Outcome struct {
	Forecast         domain.Forecast
	Actual           domain.Observation
	TemperatureError float64 // |predicted high − actual| in °C
	PrecipitationHit bool    // binary rain call matched
	ConditionCredit  float64 // 1 exact, 0.7 same group, else 0
	OverallAccuracy  float64 // weighted composite in [0,1]
	RecordedAt       time.Time
}

// Tracker accumulates outcomes and produces daily AccuracyMetrics.
// Appends are serialized behind a single mutex so concurrent recordings
// cannot skew MAE/RMSE aggregation. Metrics are retained for at least
// the configured window; compaction never removes records inside it.
type Tracker struct {
	retentionDays   int
	alertFloor      float64
	alertMinSamples int
	clock           clockwork.Clock
	logger          *slog.Logger

	mu       sync.Mutex
	outcomes map[string][]Outcome // keyed by target date, "2006-01-02"
	metrics  []domain.AccuracyMetric
}

// NewTracker creates a Tracker. retentionDays below 90 is raised to 90;
// a nil clock selects real time.
func NewTracker(retentionDays int, alertFloor float64, alertMinSamples int, clock clockwork.Clock, logger *slog.Logger) *Tracker {
	if retentionDays < 90 {
		retentionDays = 90
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		retentionDays:   retentionDays,
		alertFloor:      alertFloor,
		alertMinSamples: alertMinSamples,
		clock:           clock,
		logger:          logger,
		outcomes:        make(map[string][]Outcome),
	}
}

// RecordOutcome scores a forecast against the actual observation for its
// target date and appends the outcome to the ledger.
func (t *Tracker) RecordOutcome(forecast domain.Forecast, actual domain.Observation) Outcome {
	tempErr := math.Abs(forecast.TemperatureHigh - actual.Temperature)
	tempAcc := math.Max(0, 1-tempErr/temperatureFullErrorC)

	predictedRain := forecast.PrecipProbability >= rainProbabilityThreshold
	actualRain := actual.Precipitation > 0
	hit := predictedRain == actualRain
	precipAcc := 0.0
	if hit {
		precipAcc = 1.0
	}

	condCredit := conditionCredit(forecast.Condition, actual.Condition)

	outcome := Outcome{
		Forecast:         forecast,
		Actual:           actual,
		TemperatureError: tempErr,
		PrecipitationHit: hit,
		ConditionCredit:  condCredit,
		OverallAccuracy:  temperatureWeight*tempAcc + precipitationWeight*precipAcc + conditionWeight*condCredit,
		RecordedAt:       t.clock.Now().UTC(),
	}

	key := dateKey(forecast.Date)
	t.mu.Lock()
	t.outcomes[key] = append(t.outcomes[key], outcome)
	t.mu.Unlock()

	t.logger.Debug("recorded forecast outcome",
		"date", key,
		"city", forecast.Location.City,
		"temperature_error", tempErr,
		"precipitation_hit", hit,
	)
	return outcome
}

// DailyMetrics aggregates every outcome whose target date is date,
// appends the resulting AccuracyMetric to the ledger, and compacts
// records outside the retention window. The boolean is false when no
// outcomes exist for the date; the day's accuracy update is skipped,
// not zero-filled.
func (t *Tracker) DailyMetrics(date time.Time) (domain.AccuracyMetric, bool) {
	key := dateKey(date)

	t.mu.Lock()
	defer t.mu.Unlock()

	outcomes := t.outcomes[key]
	if len(outcomes) == 0 {
		return domain.AccuracyMetric{}, false
	}

	var absSum, sqSum, overallSum float64
	hits := 0
	for _, o := range outcomes {
		absSum += o.TemperatureError
		sqSum += o.TemperatureError * o.TemperatureError
		overallSum += o.OverallAccuracy
		if o.PrecipitationHit {
			hits++
		}
	}
	n := float64(len(outcomes))

	metric := domain.AccuracyMetric{
		Date:                  date.UTC().Truncate(24 * time.Hour),
		TemperatureMAE:        absSum / n,
		TemperatureRMSE:       math.Sqrt(sqSum / n),
		PrecipitationAccuracy: float64(hits) / n,
		OverallAccuracy:       overallSum / n,
		SampleCount:           len(outcomes),
		CalculatedAt:          t.clock.Now().UTC(),
	}
	t.metrics = append(t.metrics, metric)
	t.compactLocked()
	return metric, true
}

// Metrics returns the ledger entries for the trailing days, oldest
// first. days <= 0 selects the full retention window.
func (t *Tracker) Metrics(days int) []domain.AccuracyMetric {
	if days <= 0 || days > t.retentionDays {
		days = t.retentionDays
	}
	cutoff := t.cutoff(days)

	t.mu.Lock()
	defer t.mu.Unlock()

	var out []domain.AccuracyMetric
	for _, m := range t.metrics {
		if !m.Date.Before(cutoff) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// RecentOverallAccuracy returns the mean per-outcome overall accuracy
// over the trailing window and the number of outcomes it covers. Used
// by the confidence estimator for calibration.
func (t *Tracker) RecentOverallAccuracy(windowDays int) (float64, int) {
	cutoff := t.cutoff(windowDays)

	t.mu.Lock()
	defer t.mu.Unlock()

	var sum float64
	count := 0
	for key, outcomes := range t.outcomes {
		date, err := time.Parse("2006-01-02", key)
		if err != nil || date.Before(cutoff) {
			continue
		}
		for _, o := range outcomes {
			sum += o.OverallAccuracy
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// CheckAlertThreshold evaluates overall accuracy over the trailing
// window against the configured floor. It returns a structured alert
// event when accuracy has degraded; sparse windows below the minimum
// sample count never alert.
func (t *Tracker) CheckAlertThreshold(windowDays int) (domain.AccuracyAlert, bool) {
	overall, count := t.RecentOverallAccuracy(windowDays)
	if count < t.alertMinSamples || overall >= t.alertFloor {
		return domain.AccuracyAlert{}, false
	}

	alert := domain.AccuracyAlert{
		WindowDays:      windowDays,
		OverallAccuracy: overall,
		Floor:           t.alertFloor,
		SampleCount:     count,
		RaisedAt:        t.clock.Now().UTC(),
	}
	t.logger.Warn("prediction accuracy below floor",
		"window_days", windowDays,
		"overall_accuracy", overall,
		"floor", t.alertFloor,
		"samples", count,
	)
	return alert, true
}

// compactLocked drops outcomes and metrics that have aged out of the
// retention window. Records exactly at the boundary are kept, so a
// metric inserted today is still retrievable after retentionDays have
// elapsed. Caller holds t.mu.
func (t *Tracker) compactLocked() {
	cutoff := t.cutoff(t.retentionDays)

	for key := range t.outcomes {
		date, err := time.Parse("2006-01-02", key)
		if err != nil || date.Before(cutoff) {
			delete(t.outcomes, key)
		}
	}

	kept := t.metrics[:0]
	for _, m := range t.metrics {
		if !m.Date.Before(cutoff) {
			kept = append(kept, m)
		}
	}
	t.metrics = kept
}

// cutoff computes the oldest retained target date. Comparison is on day
// boundaries so a record dated today survives exactly days elapsed days.
func (t *Tracker) cutoff(days int) time.Time {
	return t.clock.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)
}

func dateKey(date time.Time) string {
	return date.UTC().Format("2006-01-02")
}

// conditionGroups cluster labels that count as a partial match.
var conditionGroups = [][]string{
	{"clear", "sunny"},
	{"cloudy", "partly cloudy", "overcast"},
	{"rainy", "drizzle", "showers"},
	{"stormy", "thunderstorm", "severe"},
	{"snowy", "snow", "blizzard"},
}

func conditionCredit(predicted, actual string) float64 {
	p := strings.ToLower(predicted)
	a := strings.ToLower(actual)
	if p == a {
		return 1
	}
	for _, group := range conditionGroups {
		if containsString(group, p) && containsString(group, a) {
			return partialConditionCredit
		}
	}
	return 0
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
