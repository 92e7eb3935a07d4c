package forecast

import "math"

// Normalizer holds per-feature standardization parameters (mean and
// scale). Fitted once at training time and stored in the ModelState so
// inference applies exactly the same transform as training.
type Normalizer struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// fitNormalizer computes column means and standard deviations over the
// training matrix. Zero-variance columns get scale 1 so they pass
// through unchanged.
func fitNormalizer(rows []FeatureVector) Normalizer {
	n := Normalizer{
		Mean:  make([]float64, featureCount),
		Scale: make([]float64, featureCount),
	}
	if len(rows) == 0 {
		for j := range n.Scale {
			n.Scale[j] = 1
		}
		return n
	}

	count := float64(len(rows))
	for _, row := range rows {
		for j, v := range row {
			n.Mean[j] += v
		}
	}
	for j := range n.Mean {
		n.Mean[j] /= count
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - n.Mean[j]
			n.Scale[j] += d * d
		}
	}
	for j := range n.Scale {
		n.Scale[j] = math.Sqrt(n.Scale[j] / count)
		if n.Scale[j] == 0 {
			n.Scale[j] = 1
		}
	}
	return n
}

// Apply standardizes a feature vector using the fitted parameters.
func (n Normalizer) Apply(v FeatureVector) FeatureVector {
	out := make(FeatureVector, len(v))
	for j, x := range v {
		out[j] = (x - n.Mean[j]) / n.Scale[j]
	}
	return out
}
