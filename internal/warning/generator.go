package warning

import (
	"fmt"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// rule is one entry in the classification table: a warning type, a
// predicate deriving severity and magnitude from a forecast, a
// description template, and the advisory window length.
type rule struct {
	warningType domain.WarningType
	duration    time.Duration
	classify    func(domain.Forecast) (domain.Severity, float64, bool)
	describe    func(severity domain.Severity, magnitude float64) (title, description string)
}

// Generator performs stateless rule evaluation over forecasts. All
// tuning lives in the Thresholds table.
type Generator struct {
	rules []rule
	clock clockwork.Clock
}

// NewGenerator builds a Generator from a threshold table. Pass a nil
// clock for real time.
func NewGenerator(t Thresholds, clock clockwork.Clock) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{rules: buildRules(t), clock: clock}
}

// AnalyzeForecasts evaluates every rule against every forecast. Each
// qualifying condition yields its own Warning so severity attribution
// stays unambiguous. If nothing qualifies the result is empty.
func (g *Generator) AnalyzeForecasts(forecasts []domain.Forecast) []domain.Warning {
	var warnings []domain.Warning
	now := g.clock.Now().UTC()
	for _, f := range forecasts {
		for _, r := range g.rules {
			severity, magnitude, ok := r.classify(f)
			if !ok {
				continue
			}
			title, description := r.describe(severity, magnitude)
			start := f.Date
			warnings = append(warnings, domain.Warning{
				ID:              uuid.NewString(),
				Location:        f.Location,
				Type:            r.warningType,
				Severity:        severity,
				Title:           title,
				Description:     description,
				Recommendations: recommendationsFor(r.warningType, severity),
				StartTime:       start,
				EndTime:         start.Add(r.duration),
				IssuedAt:        now,
			})
		}
	}
	return warnings
}

// ClassifySeverity returns the highest severity any rule assigns to the
// forecast, or low when no rule qualifies.
func (g *Generator) ClassifySeverity(f domain.Forecast) domain.Severity {
	var severities []domain.Severity
	for _, r := range g.rules {
		if severity, _, ok := r.classify(f); ok {
			severities = append(severities, severity)
		}
	}
	if len(severities) == 0 {
		return domain.SeverityLow
	}
	return domain.MaxSeverity(severities...)
}

func buildRules(t Thresholds) []rule {
	return []rule{
		{
			warningType: domain.WarningExtremeHeat,
			duration:    24 * time.Hour,
			classify: func(f domain.Forecast) (domain.Severity, float64, bool) {
				s, ok := t.HeatC.Classify(f.TemperatureHigh)
				return s, f.TemperatureHigh, ok
			},
			describe: func(s domain.Severity, v float64) (string, string) {
				return titleFor(s, "Heat Warning"),
					fmt.Sprintf("High temperatures of %.1f°C expected. Heat-related health risks possible.", v)
			},
		},
		{
			warningType: domain.WarningExtremeCold,
			duration:    24 * time.Hour,
			classify: func(f domain.Forecast) (domain.Severity, float64, bool) {
				s, ok := t.ColdC.ClassifyDescending(f.TemperatureLow)
				return s, f.TemperatureLow, ok
			},
			describe: func(s domain.Severity, v float64) (string, string) {
				return titleFor(s, "Cold Warning"),
					fmt.Sprintf("Low temperatures of %.1f°C expected. Cold-related health risks possible.", v)
			},
		},
		{
			warningType: domain.WarningHighWind,
			duration:    12 * time.Hour,
			classify: func(f domain.Forecast) (domain.Severity, float64, bool) {
				s, ok := t.WindKMH.Classify(f.PredictedWindSpeed)
				return s, f.PredictedWindSpeed, ok
			},
			describe: func(s domain.Severity, v float64) (string, string) {
				return titleFor(s, "Wind Warning"),
					fmt.Sprintf("High winds of %.1f km/h expected. Travel and outdoor activities may be affected.", v)
			},
		},
		{
			warningType: domain.WarningFlood,
			duration:    24 * time.Hour,
			classify: func(f domain.Forecast) (domain.Severity, float64, bool) {
				estMM := f.PrecipProbability * floodMMPerProbability
				s, ok := t.FloodMM.Classify(estMM)
				return s, estMM, ok
			},
			describe: func(s domain.Severity, v float64) (string, string) {
				return titleFor(s, "Flood Warning"),
					fmt.Sprintf("Heavy precipitation of %.1f mm expected. Flooding possible in low-lying areas.", v)
			},
		},
		{
			warningType: domain.WarningStorm,
			duration:    24 * time.Hour,
			classify: func(f domain.Forecast) (domain.Severity, float64, bool) {
				if f.PrecipProbability < t.StormPrecipProb {
					return "", 0, false
				}
				s, ok := t.WindKMH.Classify(f.PredictedWindSpeed)
				if !ok || !s.AtLeast(domain.SeverityModerate) {
					return "", 0, false
				}
				return s, f.PredictedWindSpeed, true
			},
			describe: func(s domain.Severity, v float64) (string, string) {
				return titleFor(s, "Storm Warning"),
					fmt.Sprintf("Storm conditions expected with winds up to %.1f km/h and heavy precipitation.", v)
			},
		},
		{
			warningType: domain.WarningAirQuality,
			duration:    24 * time.Hour,
			classify: func(f domain.Forecast) (domain.Severity, float64, bool) {
				stagnant := f.PredictedWindSpeed < t.AirStagnationWindKMH &&
					f.TemperatureHigh >= t.AirStagnationHeatC &&
					f.PrecipProbability*floodMMPerProbability < t.FloodMM.Low
				if !stagnant {
					return "", 0, false
				}
				severity := domain.SeverityLow
				if f.TemperatureHigh >= t.HeatC.High {
					severity = domain.SeverityModerate
				}
				return severity, f.TemperatureHigh, true
			},
			describe: func(s domain.Severity, v float64) (string, string) {
				return titleFor(s, "Air Quality Advisory"),
					fmt.Sprintf("Stagnant air expected with highs of %.1f°C. Pollutants may accumulate near the surface.", v)
			},
		},
	}
}

func titleFor(severity domain.Severity, suffix string) string {
	switch severity {
	case domain.SeverityLow:
		return "Low " + suffix
	case domain.SeverityModerate:
		return "Moderate " + suffix
	case domain.SeverityHigh:
		return "High " + suffix
	case domain.SeveritySevere:
		return "Severe " + suffix
	default:
		return suffix
	}
}
