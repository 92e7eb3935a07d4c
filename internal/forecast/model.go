package forecast

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// DefaultEstimators is the ensemble size used when none is configured.
const DefaultEstimators = 24

// DefaultSeed makes training deterministic for reproducibility. Training
// with the same seed and the same input ordering always produces the
// same ModelState.
const DefaultSeed = 42

// minTrainingDays is the smallest number of day-to-next-day examples a
// training run needs before fitting is attempted.
const minTrainingDays = 10

// Prediction is the model's raw multi-day output before confidence
// scoring. One entry per forecast day, dates ascending.
type Prediction struct {
	Date              time.Time
	TemperatureHigh   float64
	TemperatureLow    float64
	PrecipProbability float64
	WindSpeed         float64
	Condition         string
	Baseline          bool
}

// Model is the ensemble forecast model. The active ModelState lives
// behind an atomic pointer: readers take a consistent snapshot at call
// start, training publishes a replacement only after the fit completes.
type Model struct {
	extractor  *Extractor
	estimators int
	seed       int64
	clock      clockwork.Clock
	logger     *slog.Logger

	active  atomic.Pointer[ModelState]
	version atomic.Int64

	mu      sync.Mutex
	pending []domain.Observation
}

// NewModel creates an untrained Model. estimators <= 0 selects the
// default ensemble size.
func NewModel(extractor *Extractor, estimators int, seed int64, clock clockwork.Clock, logger *slog.Logger) *Model {
	if estimators <= 0 {
		estimators = DefaultEstimators
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Model{
		extractor:  extractor,
		estimators: estimators,
		seed:       seed,
		clock:      clock,
		logger:     logger,
	}
}

// Active returns the current ModelState snapshot, or nil if no training
// run has ever completed.
func (m *Model) Active() *ModelState {
	return m.active.Load()
}

// Update buffers newly arrived observations for the next scheduled
// training run instead of retraining inline.
func (m *Model) Update(observations []domain.Observation) {
	if len(observations) == 0 {
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, observations...)
	m.mu.Unlock()
}

// DrainPending returns and clears the buffered observations.
func (m *Model) DrainPending() []domain.Observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := m.pending
	m.pending = nil
	return pending
}

// Train fits a new ensemble over the historical observations and
// atomically publishes it as the active ModelState. On failure the
// previous snapshot remains active and a *domain.TrainingError is
// returned.
func (m *Model) Train(observations []domain.Observation) (*ModelState, error) {
	rows, targets, cutoff, err := m.buildTrainingSet(observations)
	if err != nil {
		return nil, &domain.TrainingError{Cause: err}
	}

	normalizer := fitNormalizer(rows)
	normalized := make([]FeatureVector, len(rows))
	for i, row := range rows {
		normalized[i] = normalizer.Apply(row)
	}

	rng := rand.New(rand.NewSource(m.seed))
	state := &ModelState{
		Version:     m.version.Add(1),
		TrainedAt:   m.clock.Now().UTC(),
		DataCutoff:  cutoff,
		SampleCount: len(rows),
		Seed:        m.seed,
		Normalizer:  normalizer,
		Climatology: NewClimatology(observations),
		high:        fitEnsemble(normalized, targets.high, m.estimators, rng),
		low:         fitEnsemble(normalized, targets.low, m.estimators, rng),
		precip:      fitEnsemble(normalized, targets.precip, m.estimators, rng),
		wind:        fitEnsemble(normalized, targets.wind, m.estimators, rng),
	}

	m.active.Store(state)
	m.logger.Info("model trained",
		"version", state.Version,
		"samples", state.SampleCount,
		"estimators", m.estimators,
		"data_cutoff", state.DataCutoff,
	)
	return state, nil
}

type trainingTargets struct {
	high, low, precip, wind []float64
}

// buildTrainingSet turns the observation history into supervised
// examples: features extracted from the window ending on day d, targets
// aggregated from day d+1.
func (m *Model) buildTrainingSet(observations []domain.Observation) ([]FeatureVector, trainingTargets, time.Time, error) {
	if len(observations) == 0 {
		return nil, trainingTargets{}, time.Time{}, errors.New("no observations")
	}

	sorted := slices.Clone(observations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	cutoff := sorted[len(sorted)-1].Timestamp.UTC()

	// Partition into calendar days, preserving order.
	type day struct {
		key  string
		obs  []domain.Observation
		last int // index into sorted of the day's final observation
	}
	var days []day
	for i, obs := range sorted {
		key := obs.Timestamp.UTC().Format("2006-01-02")
		if len(days) == 0 || days[len(days)-1].key != key {
			days = append(days, day{key: key})
		}
		d := &days[len(days)-1]
		d.obs = append(d.obs, obs)
		d.last = i
	}

	var rows []FeatureVector
	var targets trainingTargets
	loc := sorted[0].Location
	for i := 0; i+1 < len(days); i++ {
		window := sorted[:days[i].last+1]
		asOf := sorted[days[i].last].Timestamp
		features, err := m.extractor.Extract(loc, asOf, window)
		if err != nil {
			continue // early days without enough history
		}

		next := days[i+1].obs
		high, low, wind := next[0].Temperature, next[0].Temperature, 0.0
		rained := false
		for _, obs := range next {
			high = max(high, obs.Temperature)
			low = min(low, obs.Temperature)
			wind = max(wind, obs.WindSpeed)
			if obs.Precipitation > 0 {
				rained = true
			}
		}

		rows = append(rows, features)
		targets.high = append(targets.high, high)
		targets.low = append(targets.low, low)
		targets.wind = append(targets.wind, wind)
		if rained {
			targets.precip = append(targets.precip, 1)
		} else {
			targets.precip = append(targets.precip, 0)
		}
	}

	if len(rows) < minTrainingDays {
		return nil, trainingTargets{}, time.Time{}, fmt.Errorf("%d training examples, need %d", len(rows), minTrainingDays)
	}
	return rows, targets, cutoff, nil
}

// Predict produces exactly days predictions with strictly ascending
// dates starting the day after asOf. When the window is too small for
// feature extraction, or no model has been trained, it degrades to the
// climatology baseline and marks each prediction accordingly. Feeding
// the same window and ModelState in twice yields identical output.
func (m *Model) Predict(loc domain.Location, asOf time.Time, window []domain.Observation, days int) ([]Prediction, error) {
	state := m.Active()

	features, err := m.extractor.Extract(loc, asOf, window)
	if err != nil && !errors.Is(err, domain.ErrInsufficientData) {
		return nil, err
	}
	if err != nil || state == nil || state.SampleCount == 0 {
		return m.baselinePredictions(loc, state, asOf, window, days)
	}

	startDay := asOf.UTC().Truncate(24 * time.Hour)
	feats := slices.Clone(features)
	prevMeanTemp := feats[fTempMean]
	predictions := make([]Prediction, 0, days)
	for offset := 1; offset <= days; offset++ {
		date := startDay.AddDate(0, 0, offset)
		doy := float64(date.YearDay())
		feats[fSeasonSin] = sin2pi(doy)
		feats[fSeasonCos] = cos2pi(doy)
		feats[fHourOfDay] = 12
		feats[fLagTempYesterday] = prevMeanTemp

		norm := state.Normalizer.Apply(feats)
		high := state.high.predict(norm)
		low := state.low.predict(norm)
		if low > high {
			high, low = low, high
		}
		precip := clamp01(state.precip.predict(norm))
		windSpeed := max(0, state.wind.predict(norm))

		predictions = append(predictions, Prediction{
			Date:              date,
			TemperatureHigh:   high,
			TemperatureLow:    low,
			PrecipProbability: precip,
			WindSpeed:         windSpeed,
			Condition:         classifyCondition(high, precip*precipProbFullScaleMM),
		})

		// Feed the prediction back as tomorrow's lag input so later
		// horizons see the forecasted trajectory, not only history.
		prevMeanTemp = (high + low) / 2
		feats[fTempMean] = (feats[fTempMean] + prevMeanTemp) / 2
	}
	return predictions, nil
}

// baselinePredictions serves the climatology fallback, preferring the
// trained snapshot's climatology over one derived from the live window.
func (m *Model) baselinePredictions(loc domain.Location, state *ModelState, asOf time.Time, window []domain.Observation, days int) ([]Prediction, error) {
	var clim Climatology
	if state != nil && !state.Climatology.Empty() {
		clim = state.Climatology
	} else {
		clim = NewClimatology(window)
	}
	if clim.Empty() {
		return nil, fmt.Errorf("baseline forecast for %q: no usable history: %w", loc.City, domain.ErrInsufficientData)
	}

	m.logger.Warn("serving climatology baseline forecast",
		"city", loc.City,
		"window_size", len(window),
		"model_trained", state != nil,
	)

	startDay := asOf.UTC().Truncate(24 * time.Hour)
	predictions := make([]Prediction, 0, days)
	for offset := 1; offset <= days; offset++ {
		predictions = append(predictions, clim.predict(startDay.AddDate(0, 0, offset)))
	}
	return predictions, nil
}
