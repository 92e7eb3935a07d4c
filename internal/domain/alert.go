package domain

import "time"

// AccuracyAlert is the structured event raised when overall accuracy over
// a trailing window drops below the configured floor. It is published for
// operators and the scheduler to act on (trigger retraining), not thrown
// as a fault.
type AccuracyAlert struct {
	WindowDays      int       `json:"window_days"`
	OverallAccuracy float64   `json:"overall_accuracy"`
	Floor           float64   `json:"floor"`
	SampleCount     int       `json:"sample_count"`
	RaisedAt        time.Time `json:"raised_at"`
}
