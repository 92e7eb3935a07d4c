// Package engine is the facade over the forecasting core. It owns the
// request path (cached, deduplicated prediction), the background
// lifecycle (retraining, outcome reconciliation), and the event surface
// (warnings and accuracy alerts).
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/accuracy"
	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/couchcryptid/weather-prediction-service/internal/forecast"
	"github.com/couchcryptid/weather-prediction-service/internal/observability"
	"github.com/couchcryptid/weather-prediction-service/internal/warning"
	"github.com/jonboulle/clockwork"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// HistoricalStore is the consumer-side view of the observation store.
// Implementations must return observations ordered by timestamp.
type HistoricalStore interface {
	GetObservations(ctx context.Context, loc domain.Location, start, end time.Time) ([]domain.Observation, error)
	GetActual(ctx context.Context, loc domain.Location, date time.Time) (domain.Observation, bool, error)
}

// EventPublisher pushes warnings and accuracy alerts to downstream
// consumers. A nil publisher means events are logged only.
type EventPublisher interface {
	PublishWarning(ctx context.Context, w domain.Warning) error
	PublishAlert(ctx context.Context, a domain.AccuracyAlert) error
}

// Forecast horizon bounds per the prediction contract.
const (
	MinForecastDays     = 1
	MaxForecastDays     = 14
	DefaultForecastDays = 7
)

// Options tune the engine's windows and cadences.
type Options struct {
	HistoryWindowDays  int           // observation window fed to predictions
	TrainingWindowDays int           // observation window fed to training runs
	AccuracyWindowDays int           // trailing window for calibration and alerts
	StaleAfter         time.Duration // window age beyond which forecasts are discounted
	ForecastTTL        time.Duration // cache lifetime of a generated batch
}

func (o *Options) applyDefaults() {
	if o.HistoryWindowDays <= 0 {
		o.HistoryWindowDays = 30
	}
	if o.TrainingWindowDays <= 0 {
		o.TrainingWindowDays = 90
	}
	if o.AccuracyWindowDays <= 0 {
		o.AccuracyWindowDays = 7
	}
	if o.StaleAfter <= 0 {
		o.StaleAfter = 6 * time.Hour
	}
	if o.ForecastTTL <= 0 {
		o.ForecastTTL = time.Hour
	}
}

// Engine coordinates the model, confidence estimator, warning generator,
// and accuracy tracker behind the exposed operations.
type Engine struct {
	store      HistoricalStore
	model      *forecast.Model
	confidence *forecast.ConfidenceEstimator
	warnings   *warning.Generator
	tracker    *accuracy.Tracker
	publisher  EventPublisher
	metrics    *observability.Metrics
	clock      clockwork.Clock
	logger     *slog.Logger
	opts       Options

	group      singleflight.Group
	cache      *gocache.Cache
	retraining atomic.Bool

	mu      sync.Mutex
	tracked map[string]domain.Location // locations with recent queries
	pending map[string][]domain.Forecast
}

// New creates an Engine. publisher may be nil.
func New(store HistoricalStore, model *forecast.Model, confidence *forecast.ConfidenceEstimator, warnings *warning.Generator, tracker *accuracy.Tracker, publisher EventPublisher, metrics *observability.Metrics, clock clockwork.Clock, logger *slog.Logger, opts Options) *Engine {
	opts.applyDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		store:      store,
		model:      model,
		confidence: confidence,
		warnings:   warnings,
		tracker:    tracker,
		publisher:  publisher,
		metrics:    metrics,
		clock:      clock,
		logger:     logger,
		opts:       opts,
		cache:      gocache.New(opts.ForecastTTL, 2*opts.ForecastTTL),
		tracked:    make(map[string]domain.Location),
		pending:    make(map[string][]domain.Forecast),
	}
}

// Predict returns exactly days forecasts for the location, dates
// ascending from tomorrow. days outside [1,14] is clamped; zero selects
// the default of 7. Concurrent calls for the same location and horizon
// share one in-flight computation.
func (e *Engine) Predict(ctx context.Context, loc domain.Location, days int) ([]domain.Forecast, error) {
	if !loc.Valid() {
		return nil, fmt.Errorf("predict for %q: %w", loc.City, domain.ErrInvalidLocation)
	}
	days = clampDays(days)

	key := fmt.Sprintf("%s|%d", loc.Key(), days)
	if cached, ok := e.cache.Get(key); ok {
		e.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached.([]domain.Forecast), nil
	}
	e.metrics.CacheLookups.WithLabelValues("miss").Inc()

	result, err, _ := e.group.Do(key, func() (any, error) {
		forecasts, err := e.generate(ctx, loc, days)
		if err != nil {
			return nil, err
		}
		e.cache.Set(key, forecasts, gocache.DefaultExpiration)
		return forecasts, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Forecast), nil
}

// generate runs the uncached prediction path for one location.
func (e *Engine) generate(ctx context.Context, loc domain.Location, days int) ([]domain.Forecast, error) {
	start := e.clock.Now()
	defer func() {
		e.metrics.PredictDuration.Observe(e.clock.Since(start).Seconds())
	}()

	now := e.clock.Now().UTC()
	windowStart := now.AddDate(0, 0, -e.opts.HistoryWindowDays)
	window, err := e.store.GetObservations(ctx, loc, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("loading observation window for %q: %w", loc.City, err)
	}

	stale := false
	if len(window) > 0 {
		newest := window[len(window)-1].Timestamp
		if now.Sub(newest) > e.opts.StaleAfter {
			stale = true
			sw := domain.StaleDataWarning{Location: loc, WindowEnd: newest, AsOf: now}
			e.logger.Warn("observation window is stale, discounting confidence",
				"city", loc.City,
				"window_end", sw.WindowEnd,
				"age", sw.Age().String(),
			)
		}
	}

	predictions, err := e.model.Predict(loc, now, window, days)
	if err != nil {
		return nil, fmt.Errorf("predicting for %q: %w", loc.City, err)
	}

	recent, samples := e.tracker.RecentOverallAccuracy(e.opts.AccuracyWindowDays)
	if samples == 0 {
		recent = 1 // no history yet; do not pre-discount new deployments
	}

	forecasts := make([]domain.Forecast, 0, len(predictions))
	for i, p := range predictions {
		score := e.confidence.Score(i+1, recent, stale, p.Baseline)
		forecasts = append(forecasts, domain.Forecast{
			Location:           loc,
			Date:               p.Date,
			TemperatureHigh:    p.TemperatureHigh,
			TemperatureLow:     p.TemperatureLow,
			PrecipProbability:  p.PrecipProbability,
			PredictedWindSpeed: p.WindSpeed,
			Condition:          p.Condition,
			Confidence:         score,
			LowConfidence:      e.confidence.LowConfidence(score),
			Baseline:           p.Baseline,
			GeneratedAt:        now,
		})
		e.metrics.ForecastsGenerated.Inc()
		if p.Baseline {
			e.metrics.BaselineForecasts.Inc()
		}
	}

	e.remember(loc, forecasts)
	return forecasts, nil
}

// remember marks the location as actively queried and queues the batch
// for outcome reconciliation. A new batch for the same target date
// supersedes the previous one.
func (e *Engine) remember(loc domain.Location, batch []domain.Forecast) {
	key := loc.Key()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.tracked[key] = loc
	byDate := make(map[string]domain.Forecast, len(e.pending[key])+len(batch))
	for _, f := range e.pending[key] {
		byDate[f.Date.UTC().Format("2006-01-02")] = f
	}
	for _, f := range batch {
		byDate[f.Date.UTC().Format("2006-01-02")] = f
	}
	merged := make([]domain.Forecast, 0, len(byDate))
	for _, f := range byDate {
		merged = append(merged, f)
	}
	e.pending[key] = merged
}

// Warnings analyzes the location's current forecast batch and returns
// any qualifying safety warnings, publishing each to the event stream.
func (e *Engine) Warnings(ctx context.Context, loc domain.Location) ([]domain.Warning, error) {
	forecasts, err := e.Predict(ctx, loc, DefaultForecastDays)
	if err != nil {
		return nil, err
	}

	warnings := e.warnings.AnalyzeForecasts(forecasts)
	for _, w := range warnings {
		e.metrics.WarningsIssued.WithLabelValues(string(w.Type), string(w.Severity)).Inc()
		if e.publisher == nil {
			continue
		}
		if err := e.publisher.PublishWarning(ctx, w); err != nil {
			e.logger.Error("publishing warning failed",
				"warning_id", w.ID,
				"type", w.Type,
				"error", err,
			)
		}
	}
	return warnings, nil
}

// AccuracyMetrics returns the daily accuracy ledger for the trailing
// days, oldest first. days <= 0 selects the full retention window.
func (e *Engine) AccuracyMetrics(days int) []domain.AccuracyMetric {
	return e.tracker.Metrics(days)
}

// ModelInfo describes the active model snapshot for the admin surface.
// The boolean is false before the first completed training run.
func (e *Engine) ModelInfo() (forecast.Info, bool) {
	state := e.model.Active()
	if state == nil {
		return forecast.Info{}, false
	}
	return state.Info(), true
}

// Ready reports whether the engine can serve model-backed forecasts.
// Before the first completed training run it still serves baseline
// forecasts, but readiness is not claimed.
func (e *Engine) Ready() bool {
	return e.model.Active() != nil
}

// Update buffers newly arrived observations for the next training run.
func (e *Engine) Update(observations []domain.Observation) {
	e.model.Update(observations)
}

// TriggerRetrain starts a background training run for the location's
// history. Idempotent: a second trigger while one is in flight is a
// no-op and returns false.
func (e *Engine) TriggerRetrain(loc domain.Location, reason string) bool {
	if !loc.Valid() {
		return false
	}
	if !e.retraining.CompareAndSwap(false, true) {
		e.logger.Info("retrain already in progress, ignoring trigger",
			"city", loc.City,
			"reason", reason,
		)
		return false
	}

	go func() {
		defer e.retraining.Store(false)
		// Detached from the request context: training outlives the
		// triggering request.
		if err := e.retrain(context.Background(), loc, reason); err != nil {
			e.logger.Error("retraining failed, previous model remains active",
				"city", loc.City,
				"reason", reason,
				"error", err,
			)
		}
	}()
	return true
}

func (e *Engine) retrain(ctx context.Context, loc domain.Location, reason string) error {
	e.metrics.RetrainsTriggered.WithLabelValues(reason).Inc()
	start := e.clock.Now()

	now := e.clock.Now().UTC()
	history, err := e.store.GetObservations(ctx, loc, now.AddDate(0, 0, -e.opts.TrainingWindowDays), now)
	if err != nil {
		e.metrics.TrainingFailures.Inc()
		return fmt.Errorf("loading training history for %q: %w", loc.City, err)
	}
	history = append(history, e.model.DrainPending()...)

	state, err := e.model.Train(history)
	if err != nil {
		e.metrics.TrainingFailures.Inc()
		return err
	}

	e.metrics.TrainingDuration.Observe(e.clock.Since(start).Seconds())
	e.metrics.ModelVersion.Set(float64(state.Version))
	e.cache.Flush() // cached batches predate the new snapshot
	e.logger.Info("retraining complete",
		"city", loc.City,
		"reason", reason,
		"version", state.Version,
		"samples", state.SampleCount,
	)
	return nil
}

// Reconcile scores every pending forecast whose target date has passed
// against the actual observation, updates the daily ledger, and checks
// the accuracy alert floor. Dates with no actual observation yet are
// retried on the next run; a store failure skips the location's update
// for this run. The returned alert, when fired, lets the scheduler
// trigger a retraining cycle.
func (e *Engine) Reconcile(ctx context.Context) (domain.AccuracyAlert, bool) {
	today := e.clock.Now().UTC().Truncate(24 * time.Hour)

	e.mu.Lock()
	locations := make([]domain.Location, 0, len(e.tracked))
	for _, loc := range e.tracked {
		locations = append(locations, loc)
	}
	e.mu.Unlock()

	touchedDates := make(map[string]time.Time)
	for _, loc := range locations {
		e.reconcileLocation(ctx, loc, today, touchedDates)
	}
	for _, date := range touchedDates {
		e.tracker.DailyMetrics(date)
	}

	overall, samples := e.tracker.RecentOverallAccuracy(e.opts.AccuracyWindowDays)
	if samples > 0 {
		e.metrics.OverallAccuracy.Set(overall)
	}

	alert, fired := e.tracker.CheckAlertThreshold(e.opts.AccuracyWindowDays)
	if !fired {
		return domain.AccuracyAlert{}, false
	}
	e.metrics.AccuracyAlerts.Inc()
	if e.publisher != nil {
		if err := e.publisher.PublishAlert(ctx, alert); err != nil {
			e.logger.Error("publishing accuracy alert failed", "error", err)
		}
	}
	return alert, true
}

func (e *Engine) reconcileLocation(ctx context.Context, loc domain.Location, today time.Time, touched map[string]time.Time) {
	key := loc.Key()

	e.mu.Lock()
	batch := e.pending[key]
	e.mu.Unlock()

	var remaining []domain.Forecast
	for _, f := range batch {
		date := f.Date.UTC().Truncate(24 * time.Hour)
		if !date.Before(today) {
			remaining = append(remaining, f)
			continue
		}

		actual, ok, err := e.store.GetActual(ctx, loc, date)
		if err != nil {
			e.logger.Error("loading actual observation failed, skipping accuracy update",
				"city", loc.City,
				"date", date.Format("2006-01-02"),
				"error", err,
			)
			remaining = append(remaining, f)
			continue
		}
		if !ok {
			// Collector has not delivered the day yet; retry next run.
			remaining = append(remaining, f)
			continue
		}

		e.tracker.RecordOutcome(f, actual)
		touched[date.Format("2006-01-02")] = date
	}

	e.mu.Lock()
	e.pending[key] = remaining
	e.mu.Unlock()
}

// TrackedLocations returns the locations with recent forecast queries,
// for scheduled batch regeneration.
func (e *Engine) TrackedLocations() []domain.Location {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Location, 0, len(e.tracked))
	for _, loc := range e.tracked {
		out = append(out, loc)
	}
	return out
}

// Regenerate refreshes the cached forecast batch for every tracked
// location. Failures degrade to the stale cached batch and a log line.
func (e *Engine) Regenerate(ctx context.Context) {
	for _, loc := range e.TrackedLocations() {
		e.cache.Delete(fmt.Sprintf("%s|%d", loc.Key(), DefaultForecastDays))
		if _, err := e.Predict(ctx, loc, DefaultForecastDays); err != nil {
			e.logger.Warn("scheduled forecast regeneration failed",
				"city", loc.City,
				"error", err,
			)
		}
	}
}

func clampDays(days int) int {
	switch {
	case days == 0:
		return DefaultForecastDays
	case days < MinForecastDays:
		return MinForecastDays
	case days > MaxForecastDays:
		return MaxForecastDays
	default:
		return days
	}
}
