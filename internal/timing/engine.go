// Package timing detects sound onsets in an amplitude sequence and reduces
// them to inter-onset distance statistics.
package timing

import "fmt"

// State is the segmentation state machine's current classification.
type State int

const (
	StateSkippingInitialSilence State = iota
	StateInSound
	StateInSilence
)

func (s State) String() string {
	switch s {
	case StateSkippingInitialSilence:
		return "skipping initial silence"
	case StateInSound:
		return "in sound"
	case StateInSilence:
		return "in silence"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Step is the outcome of one transition.
type Step struct {
	Next     State
	Position int  // onset index, or start index of the accepted silence run
	Found    bool // false when the source was exhausted during the search
	Onset    bool // Position marks a new onset
}

// Segmentation is the result of a full pass over a source.
type Segmentation struct {
	Onsets     []int
	LastIndex  int // last index the source yielded, -1 when empty
	FinalState State

	// Degenerate is set when the threshold could not separate sound from
	// silence (threshold <= 0).
	Degenerate *DegenerateInputError
}

// Complete reports whether the traversal reached the final sample of a
// sequence holding total samples.
func (s Segmentation) Complete(total int) bool {
	return s.LastIndex == total-1
}

// Engine classifies samples as loud (magnitude >= Threshold) or quiet and
// splits the sequence into sound events.
type Engine struct {
	Threshold  int
	Resolution int // a quiet run must be longer than this to count as silence
}

// NewEngine validates the parameters and returns an Engine.
func NewEngine(threshold, resolution int) (Engine, error) {
	if resolution < 1 {
		return Engine{}, fmt.Errorf("%w: got %d", ErrInvalidResolution, resolution)
	}
	return Engine{Threshold: threshold, Resolution: resolution}, nil
}

// Transition advances src from state until the next state change or until
// src is exhausted.
func (e Engine) Transition(state State, src Source) Step {
	switch state {
	case StateSkippingInitialSilence, StateInSilence:
		pos, ok := findSound(src, e.Threshold)
		if !ok {
			return Step{Next: state}
		}
		return Step{Next: StateInSound, Position: pos, Found: true, Onset: true}
	case StateInSound:
		pos, ok := findSilence(src, e.Threshold, e.Resolution)
		if !ok {
			return Step{Next: state}
		}
		return Step{Next: StateInSilence, Position: pos, Found: true}
	default:
		return Step{Next: state}
	}
}

// Segment runs the state machine over src until exhaustion and returns every
// onset found.
func (e Engine) Segment(src Source) Segmentation {
	tracked := &trackingSource{src: src, last: -1}
	result := Segmentation{Onsets: make([]int, 0)}

	if e.Threshold <= 0 {
		result.Degenerate = &DegenerateInputError{
			Reason: fmt.Sprintf("threshold %d classifies every sample as sound", e.Threshold),
		}
	}

	state := StateSkippingInitialSilence
	for {
		step := e.Transition(state, tracked)
		if !step.Found {
			break
		}
		if step.Onset {
			result.Onsets = append(result.Onsets, step.Position)
		}
		state = step.Next
	}

	result.LastIndex = tracked.last
	result.FinalState = state
	return result
}

// findSound consumes quiet samples and returns the index of the first loud
// one.
func findSound(src Source, threshold int) (int, bool) {
	for {
		s, ok := src.Next()
		if !ok {
			return 0, false
		}
		if s.Magnitude() >= threshold {
			return s.Index, true
		}
	}
}

// findSilence consumes samples until a quiet run longer than resolution has
// been seen and returns the index where that run started. Shorter quiet runs
// are dropped as dips inside the sound.
func findSilence(src Source, threshold, resolution int) (int, bool) {
	runStart, runLen := 0, 0
	for {
		s, ok := src.Next()
		if !ok {
			return 0, false
		}
		if s.Magnitude() >= threshold {
			runLen = 0
			continue
		}
		if runLen == 0 {
			runStart = s.Index
		}
		runLen++
		if runLen > resolution {
			return runStart, true
		}
	}
}

type trackingSource struct {
	src  Source
	last int
}

func (t *trackingSource) Next() (Sample, bool) {
	s, ok := t.src.Next()
	if ok {
		t.last = s.Index
	}
	return s, ok
}
