package forecast

// Confidence decay constants: day 1 starts at the base and each extra
// day of horizon subtracts the decay, so confidence is monotonically
// non-increasing in horizon by construction.
const (
	confidenceBase  = 0.85
	confidenceDecay = 0.05

	// staleDiscount is applied when the observation window is older
	// than expected but a forecast is still produced.
	staleDiscount = 0.9
)

// ConfidenceEstimator derives per-day confidence scores from the
// prediction horizon and recent tracked accuracy.
type ConfidenceEstimator struct {
	lowThreshold float64
}

// NewConfidenceEstimator creates an estimator with the given
// low-confidence threshold (0.70 by default configuration).
func NewConfidenceEstimator(lowThreshold float64) *ConfidenceEstimator {
	return &ConfidenceEstimator{lowThreshold: lowThreshold}
}

// Score computes the confidence for a forecast dayOffset days ahead
// (day 1 = tomorrow). recentAccuracy is the trailing overall accuracy in
// [0,1] reported by the tracker; pass 1 when no accuracy history exists
// yet so new deployments are not pre-discounted. Baseline forecasts are
// capped below 0.5 regardless of the other inputs.
func (e *ConfidenceEstimator) Score(dayOffset int, recentAccuracy float64, stale, baseline bool) float64 {
	horizon := confidenceBase - confidenceDecay*float64(dayOffset-1)
	if horizon < 0 {
		horizon = 0
	}

	// Recent tracked error discounts confidence: perfect accuracy keeps
	// the horizon score, zero accuracy halves it.
	calibration := 0.5 + 0.5*clamp01(recentAccuracy)
	score := horizon * calibration

	if stale {
		score *= staleDiscount
	}
	if baseline && score > BaselineConfidenceCap {
		score = BaselineConfidenceCap
	}
	return clamp01(score)
}

// LowConfidence reports whether a score must be tagged low-confidence.
// The tag is surfaced to consumers, never silently dropped.
func (e *ConfidenceEstimator) LowConfidence(score float64) bool {
	return score < e.lowThreshold
}
