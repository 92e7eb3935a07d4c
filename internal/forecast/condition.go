package forecast

// Condition labels produced by the model. These match the vocabulary the
// accuracy tracker groups for partial-credit matching.
const (
	ConditionSnow         = "Snow"
	ConditionRainy        = "Rainy"
	ConditionDrizzle      = "Drizzle"
	ConditionSunny        = "Sunny"
	ConditionPartlyCloudy = "Partly Cloudy"
	ConditionCloudy       = "Cloudy"
)

// precipProbFullScaleMM maps precipitation probability to an expected
// daily amount: probability 1.0 corresponds to 10 mm. The accuracy
// tracker applies the inverse mapping when scoring outcomes.
const precipProbFullScaleMM = 10.0

// classifyCondition scores every condition class against the predicted
// temperature high and expected precipitation amount and returns the
// arg-max. Scores are graded memberships, so the boundaries behave like
// the threshold ladder (rain beats temperature-driven classes, snow
// requires sub-zero highs) while remaining a multi-class output.
func classifyCondition(tempHigh, estPrecipMM float64) string {
	scores := map[string]float64{
		ConditionSnow:         rampUp(estPrecipMM, 1, 5) * rampDown(tempHigh, -2, 0),
		ConditionRainy:        rampUp(estPrecipMM, 1, 5) * rampUp(tempHigh, -2, 0),
		ConditionDrizzle:      rampUp(estPrecipMM, 0.2, 1) * rampDown(estPrecipMM, 1, 5),
		ConditionSunny:        rampDown(estPrecipMM, 0.2, 1) * rampUp(tempHigh, 20, 30),
		ConditionPartlyCloudy: rampDown(estPrecipMM, 0.2, 1) * rampUp(tempHigh, 10, 20) * rampDown(tempHigh, 20, 30),
		ConditionCloudy:       rampDown(estPrecipMM, 0.2, 1) * rampDown(tempHigh, 10, 20),
	}

	best := ConditionCloudy
	bestScore := -1.0
	// Fixed iteration order keeps ties deterministic.
	for _, label := range []string{
		ConditionSnow, ConditionRainy, ConditionDrizzle,
		ConditionSunny, ConditionPartlyCloudy, ConditionCloudy,
	} {
		if scores[label] > bestScore {
			best = label
			bestScore = scores[label]
		}
	}
	return best
}

// rampUp is 0 below lo, 1 above hi, linear in between.
func rampUp(x, lo, hi float64) float64 {
	if x <= lo {
		return 0
	}
	if x >= hi {
		return 1
	}
	return (x - lo) / (hi - lo)
}

// rampDown is 1 below lo, 0 above hi, linear in between.
func rampDown(x, lo, hi float64) float64 {
	return 1 - rampUp(x, lo, hi)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
