package forecast

import (
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
)

// BaselineConfidenceCap bounds the confidence of climatology-based
// forecasts. Kept below 0.5 so baseline output is always distinguishable
// from model output downstream.
const BaselineConfidenceCap = 0.45

// monthStats aggregates daily statistics for one calendar month.
type monthStats struct {
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	PrecipProb float64 `json:"precip_prob"`
	Wind       float64 `json:"wind"`
	Days       int     `json:"days"`
}

// Climatology is a seasonal average baseline built from historical
// observations, used when no trained model covers a location's region.
type Climatology struct {
	Months [12]monthStats `json:"months"`
}

// NewClimatology aggregates observations into per-month daily averages:
// mean daily high/low temperature, fraction of rainy days, mean daily
// peak wind.
func NewClimatology(observations []domain.Observation) Climatology {
	type dayAgg struct {
		high, low, wind float64
		rained          bool
	}
	days := make(map[string]*dayAgg)
	for _, obs := range observations {
		key := obs.Timestamp.UTC().Format("2006-01-02")
		agg, ok := days[key]
		if !ok {
			agg = &dayAgg{high: obs.Temperature, low: obs.Temperature}
			days[key] = agg
		}
		agg.high = max(agg.high, obs.Temperature)
		agg.low = min(agg.low, obs.Temperature)
		agg.wind = max(agg.wind, obs.WindSpeed)
		if obs.Precipitation > 0 {
			agg.rained = true
		}
	}

	var c Climatology
	for key, agg := range days {
		t, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		m := &c.Months[int(t.Month())-1]
		m.High += agg.high
		m.Low += agg.low
		m.Wind += agg.wind
		if agg.rained {
			m.PrecipProb++
		}
		m.Days++
	}
	for i := range c.Months {
		if c.Months[i].Days > 0 {
			d := float64(c.Months[i].Days)
			c.Months[i].High /= d
			c.Months[i].Low /= d
			c.Months[i].Wind /= d
			c.Months[i].PrecipProb /= d
		}
	}
	return c
}

// Empty reports whether no month has any data.
func (c Climatology) Empty() bool {
	for _, m := range c.Months {
		if m.Days > 0 {
			return false
		}
	}
	return true
}

// forDate returns stats for the date's month, falling back to the
// nearest populated month so sparse histories still yield a baseline.
func (c Climatology) forDate(date time.Time) monthStats {
	idx := int(date.Month()) - 1
	if c.Months[idx].Days > 0 {
		return c.Months[idx]
	}
	for offset := 1; offset <= 6; offset++ {
		for _, i := range []int{(idx + offset) % 12, (idx - offset + 12) % 12} {
			if c.Months[i].Days > 0 {
				return c.Months[i]
			}
		}
	}
	return monthStats{}
}

// predict produces a climatology prediction for one date.
func (c Climatology) predict(date time.Time) Prediction {
	m := c.forDate(date)
	estPrecipMM := m.PrecipProb * precipProbFullScaleMM
	return Prediction{
		Date:              date,
		TemperatureHigh:   m.High,
		TemperatureLow:    m.Low,
		PrecipProbability: clamp01(m.PrecipProb),
		WindSpeed:         m.Wind,
		Condition:         classifyCondition(m.High, estPrecipMM),
		Baseline:          true,
	}
}
