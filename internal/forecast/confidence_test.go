package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceEstimator_MonotonicInHorizon(t *testing.T) {
	e := NewConfidenceEstimator(0.70)

	prev := 1.1
	for offset := 1; offset <= 14; offset++ {
		score := e.Score(offset, 0.9, false, false)
		assert.LessOrEqual(t, score, prev, "day %d must not exceed day %d", offset, offset-1)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		prev = score
	}
}

func TestConfidenceEstimator_AccuracyDiscount(t *testing.T) {
	e := NewConfidenceEstimator(0.70)

	perfect := e.Score(1, 1.0, false, false)
	degraded := e.Score(1, 0.5, false, false)
	worst := e.Score(1, 0.0, false, false)

	assert.InDelta(t, confidenceBase, perfect, 1e-9)
	assert.Less(t, degraded, perfect)
	assert.Less(t, worst, degraded)
	assert.InDelta(t, confidenceBase/2, worst, 1e-9, "zero accuracy halves the horizon score")
}

func TestConfidenceEstimator_StaleDiscount(t *testing.T) {
	e := NewConfidenceEstimator(0.70)

	fresh := e.Score(2, 0.8, false, false)
	stale := e.Score(2, 0.8, true, false)
	assert.Less(t, stale, fresh)
	assert.InDelta(t, fresh*staleDiscount, stale, 1e-9)
}

func TestConfidenceEstimator_BaselineCap(t *testing.T) {
	e := NewConfidenceEstimator(0.70)

	for offset := 1; offset <= 14; offset++ {
		score := e.Score(offset, 1.0, false, true)
		assert.LessOrEqual(t, score, BaselineConfidenceCap)
		assert.Less(t, score, 0.5, "baseline confidence stays below 0.5")
	}
}

func TestConfidenceEstimator_LowConfidenceFlag(t *testing.T) {
	e := NewConfidenceEstimator(0.70)

	assert.True(t, e.LowConfidence(0.69))
	assert.False(t, e.LowConfidence(0.70))
	assert.False(t, e.LowConfidence(0.95))
}
