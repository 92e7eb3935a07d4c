// Package domain models the weather prediction engine's core entities.
//
// # Entities
//
// Observation is a single historical weather measurement for a location,
// produced by the upstream collector service and immutable once stored.
// Forecast is one predicted day (temperature range, precipitation
// probability, condition, confidence) for one location; a prediction run
// for N days always yields exactly N forecasts with strictly ascending
// dates. Forecasts are superseded by the next scheduled regeneration,
// never mutated.
//
// Warning is a typed, severity-ranked safety advisory derived from one or
// more forecasts. Severity is totally ordered: low < moderate < high <
// severe. Every warning carries at least one safety recommendation.
//
// AccuracyMetric is a daily aggregate comparing past forecasts to the
// observations that later arrived for the same date: temperature MAE and
// RMSE, a binary-threshold precipitation accuracy, and a weighted overall
// accuracy composite. Metrics are append-only and retained for at least
// the configured retention window (90 days minimum).
//
// # Units
//
// Temperatures are degrees Celsius, wind speeds km/h, precipitation mm,
// humidity and cloud cover percent, pressure hPa. Precipitation
// probability and all accuracy/confidence scores are in [0, 1].
//
// # Degradation
//
// Nothing in this package is fatal to the process. Too little history
// degrades a prediction to the seasonal climatology baseline with capped
// confidence; a stale observation window widens the confidence discount;
// a failed training run leaves the previous model active. Every degraded
// decision is surfaced through structured logs and metrics, never
// silently swallowed.
package domain
