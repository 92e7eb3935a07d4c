// Package scheduler drives the engine's two background cadences: fast
// forecast regeneration with outcome reconciliation, and slow model
// retraining. The cadences are independent; a long training run never
// delays regeneration because training happens on its own goroutine
// behind the engine's trigger.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Engine is the scheduler-side view of the prediction engine.
type Engine interface {
	Regenerate(ctx context.Context)
	Reconcile(ctx context.Context) (domain.AccuracyAlert, bool)
	TriggerRetrain(loc domain.Location, reason string) bool
	TrackedLocations() []domain.Location
}

// Scheduler owns the periodic tickers. Run blocks until the context is
// cancelled.
type Scheduler struct {
	engine        Engine
	regenEvery    time.Duration
	retrainEvery  time.Duration
	clock         clockwork.Clock
	logger        *slog.Logger
}

// New creates a Scheduler. Non-positive intervals select one hour for
// regeneration and one week for retraining.
func New(engine Engine, regenEvery, retrainEvery time.Duration, clock clockwork.Clock, logger *slog.Logger) *Scheduler {
	if regenEvery <= 0 {
		regenEvery = time.Hour
	}
	if retrainEvery <= 0 {
		retrainEvery = 7 * 24 * time.Hour
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		engine:       engine,
		regenEvery:   regenEvery,
		retrainEvery: retrainEvery,
		clock:        clock,
		logger:       logger,
	}
}

// Run drives both cadences until ctx is cancelled. Each regeneration
// tick refreshes tracked forecasts and reconciles arrived outcomes; an
// accuracy alert raised during reconciliation triggers an immediate
// retraining cycle instead of waiting for the weekly tick.
func (s *Scheduler) Run(ctx context.Context) error {
	regen := s.clock.NewTicker(s.regenEvery)
	defer regen.Stop()
	retrain := s.clock.NewTicker(s.retrainEvery)
	defer retrain.Stop()

	s.logger.Info("scheduler started",
		"regenerate_every", s.regenEvery.String(),
		"retrain_every", s.retrainEvery.String(),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()

		case <-regen.Chan():
			s.engine.Regenerate(ctx)
			if alert, fired := s.engine.Reconcile(ctx); fired {
				s.logger.Warn("accuracy alert raised, requesting retrain",
					"overall_accuracy", alert.OverallAccuracy,
					"floor", alert.Floor,
				)
				s.retrainTracked("accuracy_alert")
			}

		case <-retrain.Chan():
			s.retrainTracked("scheduled")
		}
	}
}

// retrainTracked asks for a retraining run over the primary tracked
// location's region. With nothing tracked yet there is no history worth
// fitting, so the cycle is skipped.
func (s *Scheduler) retrainTracked(reason string) {
	locations := s.engine.TrackedLocations()
	if len(locations) == 0 {
		s.logger.Info("no tracked locations, skipping retrain", "reason", reason)
		return
	}
	if !s.engine.TriggerRetrain(locations[0], reason) {
		s.logger.Info("retrain already in flight", "reason", reason)
	}
}
