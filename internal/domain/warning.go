package domain

import "time"

// WarningType categorizes a safety warning.
type WarningType string

const (
	WarningStorm       WarningType = "storm"
	WarningExtremeHeat WarningType = "extreme_heat"
	WarningExtremeCold WarningType = "extreme_cold"
	WarningFlood       WarningType = "flood"
	WarningHighWind    WarningType = "high_wind"
	WarningAirQuality  WarningType = "air_quality"
)

// Severity is a totally ordered warning intensity.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeveritySevere   Severity = "severe"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityModerate: 1,
	SeverityHigh:     2,
	SeveritySevere:   3,
}

// Rank returns the severity's position in the low < moderate < high < severe
// ordering. Unknown severities rank below low.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether s is as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// MaxSeverity returns the highest severity among the given values, or
// empty when none are given.
func MaxSeverity(severities ...Severity) Severity {
	var max Severity
	rank := -1
	for _, s := range severities {
		if s.Rank() > rank {
			max = s
			rank = s.Rank()
		}
	}
	return max
}

// Warning is a typed safety advisory derived from forecasts. Each
// qualifying condition yields its own warning record so severity
// attribution stays unambiguous.
type Warning struct {
	ID              string      `json:"id"`
	Location        Location    `json:"location"`
	Type            WarningType `json:"warning_type"`
	Severity        Severity    `json:"severity"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Recommendations []string    `json:"safety_recommendations"` // never empty
	StartTime       time.Time   `json:"start_time"`
	EndTime         time.Time   `json:"end_time"`
	IssuedAt        time.Time   `json:"issued_at"`
}
