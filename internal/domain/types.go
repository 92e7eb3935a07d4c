package domain

import (
	"fmt"
	"time"
)

// Location identifies a forecast target. Value type; equality is by
// coordinates plus name, which is also what Key encodes.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

// Valid reports whether coordinates are in range and a city name is present.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180 &&
		l.City != ""
}

// Key returns a stable identifier used for cache keys, singleflight
// grouping, and per-location ledgers.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f|%s", l.Latitude, l.Longitude, l.City)
}

// Observation is one historical weather measurement, produced by the
// external collector. Immutable once stored.
type Observation struct {
	Location      Location  `json:"location"`
	Timestamp     time.Time `json:"timestamp"`
	Temperature   float64   `json:"temperature"`    // °C
	Humidity      float64   `json:"humidity"`       // %
	Pressure      float64   `json:"pressure"`       // hPa
	WindSpeed     float64   `json:"wind_speed"`     // km/h
	WindDirection float64   `json:"wind_direction"` // degrees
	Precipitation float64   `json:"precipitation"`  // mm
	CloudCover    float64   `json:"cloud_cover"`    // %
	Condition     string    `json:"condition"`
}

// Forecast is a single predicted day for one location. Created by the
// model, immutable afterward; superseded by the next regeneration batch.
type Forecast struct {
	Location           Location  `json:"location"`
	Date               time.Time `json:"forecast_date"`
	TemperatureHigh    float64   `json:"predicted_temperature_high"`
	TemperatureLow     float64   `json:"predicted_temperature_low"`
	PrecipProbability  float64   `json:"precipitation_probability"` // [0,1]
	PredictedWindSpeed float64   `json:"predicted_wind_speed"`      // km/h
	Condition          string    `json:"weather_condition"`
	Confidence         float64   `json:"confidence_score"` // [0,1]
	LowConfidence      bool      `json:"low_confidence"`
	Baseline           bool      `json:"baseline,omitempty"` // climatology fallback
	GeneratedAt        time.Time `json:"generated_at"`
}

// AccuracyMetric is one day's aggregate prediction error. Append-only.
type AccuracyMetric struct {
	Date                  time.Time `json:"date"`
	TemperatureMAE        float64   `json:"temperature_mae"`
	TemperatureRMSE       float64   `json:"temperature_rmse"`
	PrecipitationAccuracy float64   `json:"precipitation_accuracy"` // [0,1]
	OverallAccuracy       float64   `json:"overall_accuracy"`       // [0,1]
	SampleCount           int       `json:"sample_count"`
	CalculatedAt          time.Time `json:"calculated_at"`
}
