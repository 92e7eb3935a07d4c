package forecast

import "time"

// ModelState is an immutable snapshot of trained model parameters, the
// normalization parameters needed to reproduce feature scaling at
// inference time, and the training metadata. Exactly one snapshot is
// active at a time; training publishes a new one that atomically
// replaces the active pointer while in-flight predictions keep reading
// the snapshot they started with.
type ModelState struct {
	Version     int64     `json:"version"`
	TrainedAt   time.Time `json:"trained_at"`
	DataCutoff  time.Time `json:"data_cutoff"`
	SampleCount int       `json:"sample_count"`
	Seed        int64     `json:"seed"`

	Normalizer  Normalizer  `json:"normalizer"`
	Climatology Climatology `json:"climatology"`

	high   ensemble
	low    ensemble
	precip ensemble
	wind   ensemble
}

// Info is the externally visible summary of a ModelState.
type Info struct {
	Version      int64     `json:"version"`
	TrainedAt    time.Time `json:"trained_at"`
	DataCutoff   time.Time `json:"data_cutoff"`
	SampleCount  int       `json:"sample_count"`
	FeatureCount int       `json:"feature_count"`
	Estimators   int       `json:"estimators"`
}

// Info summarizes the snapshot for the admin surface.
func (s *ModelState) Info() Info {
	return Info{
		Version:      s.Version,
		TrainedAt:    s.TrainedAt,
		DataCutoff:   s.DataCutoff,
		SampleCount:  s.SampleCount,
		FeatureCount: featureCount,
		Estimators:   len(s.high.Learners),
	}
}
