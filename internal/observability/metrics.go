package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction engine.
type Metrics struct {
	ForecastsGenerated prometheus.Counter
	BaselineForecasts  prometheus.Counter
	WarningsIssued     *prometheus.CounterVec // labels: type, severity
	AccuracyAlerts     prometheus.Counter

	// Model lifecycle metrics.
	RetrainsTriggered *prometheus.CounterVec // labels: reason={scheduled,manual,accuracy_alert}
	TrainingDuration  prometheus.Histogram
	TrainingFailures  prometheus.Counter
	ModelVersion      prometheus.Gauge

	// Request path metrics.
	PredictDuration prometheus.Histogram
	CacheLookups    *prometheus.CounterVec // labels: result={hit,miss}
	OverallAccuracy prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "forecasts_generated_total",
			Help:      "Total forecast days produced, model and baseline combined.",
		}),
		BaselineForecasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "baseline_forecasts_total",
			Help:      "Forecast days served from climatology fallback.",
		}),
		WarningsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "warnings_issued_total",
			Help:      "Weather warnings generated by type and severity.",
		}, []string{"type", "severity"}),
		AccuracyAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "accuracy_alerts_total",
			Help:      "Times trailing accuracy fell below the alert floor.",
		}),
		RetrainsTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "retrains_triggered_total",
			Help:      "Model retraining runs by trigger reason.",
		}, []string{"reason"}),
		TrainingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_prediction",
			Name:      "training_duration_seconds",
			Help:      "Duration of a complete model training run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		TrainingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "training_failures_total",
			Help:      "Training runs that ended in error, leaving the active model in place.",
		}),
		ModelVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_prediction",
			Name:      "model_version",
			Help:      "Version counter of the active model snapshot, 0 before first training.",
		}),
		PredictDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_prediction",
			Name:      "predict_duration_seconds",
			Help:      "Duration of a full forecast generation for one location.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "forecast_cache_total",
			Help:      "Forecast cache lookups by result.",
		}, []string{"result"}),
		OverallAccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_prediction",
			Name:      "overall_accuracy",
			Help:      "Trailing-window composite prediction accuracy in [0,1].",
		}),
	}

	prometheus.MustRegister(
		m.ForecastsGenerated,
		m.BaselineForecasts,
		m.WarningsIssued,
		m.AccuracyAlerts,
		m.RetrainsTriggered,
		m.TrainingDuration,
		m.TrainingFailures,
		m.ModelVersion,
		m.PredictDuration,
		m.CacheLookups,
		m.OverallAccuracy,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastsGenerated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_prediction", Name: "forecasts_generated_total"}),
		BaselineForecasts:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_prediction", Name: "baseline_forecasts_total"}),
		WarningsIssued:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_prediction", Name: "warnings_issued_total"}, []string{"type", "severity"}),
		AccuracyAlerts:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_prediction", Name: "accuracy_alerts_total"}),
		RetrainsTriggered:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_prediction", Name: "retrains_triggered_total"}, []string{"reason"}),
		TrainingDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_prediction", Name: "training_duration_seconds"}),
		TrainingFailures:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_prediction", Name: "training_failures_total"}),
		ModelVersion:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_prediction", Name: "model_version"}),
		PredictDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_prediction", Name: "predict_duration_seconds"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_prediction", Name: "forecast_cache_total"}, []string{"result"}),
		OverallAccuracy:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_prediction", Name: "overall_accuracy"}),
	}
}
