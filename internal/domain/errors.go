package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientData means the observation window is too small to extract
// features. Recoverable: callers fall back to the climatology baseline
// with capped confidence.
var ErrInsufficientData = errors.New("insufficient observation data")

// ErrInvalidLocation means the requested location fails validation.
// Propagated to the caller, never retried internally.
var ErrInvalidLocation = errors.New("invalid location")

// TrainingError wraps a failed model fit. The previous model state stays
// active, so forecasts are not disrupted.
type TrainingError struct {
	Cause error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("model training failed: %v", e.Cause)
}

func (e *TrainingError) Unwrap() error { return e.Cause }

// StaleDataWarning is a non-fatal signal that the observation window is
// older than expected. The forecast is still produced, with an extra
// confidence discount. Emitted as a structured log event, not an error
// return.
type StaleDataWarning struct {
	Location  Location
	WindowEnd time.Time
	AsOf      time.Time
}

// Age returns how far the newest observation lags the reference time.
func (w StaleDataWarning) Age() time.Duration {
	return w.AsOf.Sub(w.WindowEnd)
}
