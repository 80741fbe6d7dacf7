package timing

import (
	"errors"
	"fmt"
)

// Configuration errors
var (
	ErrInvalidResolution = errors.New("timing: resolution must be at least 1")
	ErrInvalidBeats      = errors.New("timing: beats must be at least 1")
)

// ErrInsufficientData is matched by every InsufficientDataError via errors.Is.
var ErrInsufficientData = errors.New("timing: insufficient data")

// InsufficientDataError reports that a stage did not receive enough input to
// produce a result. It ends the analysis attempt but not the process.
type InsufficientDataError struct {
	Stage string // "noise floor", "distances", "beats", "statistics"
	Have  int
	Need  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: have %d, need %d", e.Stage, e.Have, e.Need)
}

// Is makes errors.Is(err, ErrInsufficientData) succeed.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// DegenerateInputError describes input that was handled by substituting a
// fallback policy instead of failing. It is attached to results, never
// returned as a failure.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return "degenerate input: " + e.Reason
}
