package forecast

import "math/rand"

// linearLearner is a single weak learner: a linear model over the
// normalized feature space, fitted by gradient descent on a bootstrap
// sample.
type linearLearner struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func (l linearLearner) predict(v FeatureVector) float64 {
	out := l.Bias
	for j, w := range l.Weights {
		out += w * v[j]
	}
	return out
}

// ensemble averages many weak learners, random-forest style: each
// learner sees a different bootstrap sample of the training rows, and
// their predictions are combined by plain averaging.
type ensemble struct {
	Learners []linearLearner `json:"learners"`
}

func (e ensemble) predict(v FeatureVector) float64 {
	if len(e.Learners) == 0 {
		return 0
	}
	var sum float64
	for _, l := range e.Learners {
		sum += l.predict(v)
	}
	return sum / float64(len(e.Learners))
}

const (
	gdEpochs       = 200
	gdLearningRate = 0.05
)

// fitEnsemble trains estimators weak learners on bootstrap samples drawn
// from rows/targets. Deterministic for a given rng state and input
// ordering.
func fitEnsemble(rows []FeatureVector, targets []float64, estimators int, rng *rand.Rand) ensemble {
	e := ensemble{Learners: make([]linearLearner, 0, estimators)}
	for range estimators {
		sampleRows := make([]FeatureVector, len(rows))
		sampleTargets := make([]float64, len(rows))
		for i := range rows {
			k := rng.Intn(len(rows))
			sampleRows[i] = rows[k]
			sampleTargets[i] = targets[k]
		}
		e.Learners = append(e.Learners, fitLearner(sampleRows, sampleTargets))
	}
	return e
}

// fitLearner runs full-batch gradient descent on squared error. Inputs
// are standardized, so a fixed learning rate and epoch count are stable
// across feature magnitudes.
func fitLearner(rows []FeatureVector, targets []float64) linearLearner {
	l := linearLearner{Weights: make([]float64, featureCount)}
	n := float64(len(rows))
	if n == 0 {
		return l
	}

	for range gdEpochs {
		gradW := make([]float64, featureCount)
		var gradB float64
		for i, row := range rows {
			err := l.predict(row) - targets[i]
			for j, x := range row {
				gradW[j] += err * x
			}
			gradB += err
		}
		for j := range l.Weights {
			l.Weights[j] -= gdLearningRate * gradW[j] / n
		}
		l.Bias -= gdLearningRate * gradB / n
	}
	return l
}
