// Package warning derives typed, severity-ranked safety warnings from
// forecasts. Classification is a lookup loop over configurable threshold
// tables, so operators can tune magnitudes without touching logic.
package warning

import "github.com/couchcryptid/weather-prediction-service/internal/domain"

// Ladder maps a magnitude to a severity across four ascending steps.
// Low is the first step that qualifies for a warning at all.
type Ladder struct {
	Low      float64 `mapstructure:"low" json:"low"`
	Moderate float64 `mapstructure:"moderate" json:"moderate"`
	High     float64 `mapstructure:"high" json:"high"`
	Severe   float64 `mapstructure:"severe" json:"severe"`
}

// Classify returns the severity for v on an ascending ladder (higher
// magnitude is worse). The boolean is false when v is below the Low step.
func (l Ladder) Classify(v float64) (domain.Severity, bool) {
	switch {
	case v >= l.Severe:
		return domain.SeveritySevere, true
	case v >= l.High:
		return domain.SeverityHigh, true
	case v >= l.Moderate:
		return domain.SeverityModerate, true
	case v >= l.Low:
		return domain.SeverityLow, true
	default:
		return "", false
	}
}

// ClassifyDescending returns the severity for v on a descending ladder
// (lower magnitude is worse), used for cold thresholds.
func (l Ladder) ClassifyDescending(v float64) (domain.Severity, bool) {
	switch {
	case v <= l.Severe:
		return domain.SeveritySevere, true
	case v <= l.High:
		return domain.SeverityHigh, true
	case v <= l.Moderate:
		return domain.SeverityModerate, true
	case v <= l.Low:
		return domain.SeverityLow, true
	default:
		return "", false
	}
}

// Thresholds is the externally configurable severity table, one entry
// per warning dimension.
type Thresholds struct {
	// HeatC classifies the predicted daily high, °C ascending.
	HeatC Ladder `mapstructure:"heat_c" json:"heat_c"`
	// ColdC classifies the predicted daily low, °C descending.
	ColdC Ladder `mapstructure:"cold_c" json:"cold_c"`
	// WindKMH classifies predicted wind speed, km/h ascending.
	WindKMH Ladder `mapstructure:"wind_kmh" json:"wind_kmh"`
	// FloodMM classifies the estimated precipitation amount, mm ascending.
	FloodMM Ladder `mapstructure:"flood_mm" json:"flood_mm"`

	// StormPrecipProb is the precipitation probability that, combined
	// with at least moderate wind, qualifies as a storm.
	StormPrecipProb float64 `mapstructure:"storm_precip_prob" json:"storm_precip_prob"`

	// Air stagnation advisory: hot, dry, and nearly windless days.
	AirStagnationWindKMH float64 `mapstructure:"air_stagnation_wind_kmh" json:"air_stagnation_wind_kmh"`
	AirStagnationHeatC   float64 `mapstructure:"air_stagnation_heat_c" json:"air_stagnation_heat_c"`
}

// floodMMPerProbability converts precipitation probability into an
// estimated daily amount for flood classification: probability 1.0
// corresponds to 50 mm.
const floodMMPerProbability = 50.0

// DefaultThresholds returns the operational defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeatC:                Ladder{Low: 30, Moderate: 35, High: 40, Severe: 45},
		ColdC:                Ladder{Low: 0, Moderate: -10, High: -20, Severe: -30},
		WindKMH:              Ladder{Low: 36, Moderate: 54, High: 72, Severe: 90},
		FloodMM:              Ladder{Low: 10, Moderate: 25, High: 50, Severe: 100},
		StormPrecipProb:      0.7,
		AirStagnationWindKMH: 8,
		AirStagnationHeatC:   32,
	}
}
