package timing

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary holds distribution statistics of a distance sequence, in samples.
type Summary struct {
	Count  int
	Min    int
	Max    int
	Mean   int // truncated towards zero
	StdDev float64
}

// Delta is the spread between the longest and shortest distance.
func (s Summary) Delta() int {
	return s.Max - s.Min
}

// StdDevMillis converts the standard deviation to milliseconds.
func (s Summary) StdDevMillis(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return s.StdDev * 1000 / float64(sampleRate)
}

// Summarize computes min, max, integer mean and population standard
// deviation.
func Summarize(distances []int) (Summary, error) {
	if len(distances) == 0 {
		return Summary{}, &InsufficientDataError{Stage: "statistics", Have: 0, Need: 1}
	}

	sum := 0
	values := make([]float64, len(distances))
	for i, d := range distances {
		sum += d
		values[i] = float64(d)
	}

	return Summary{
		Count:  len(distances),
		Min:    slices.Min(distances),
		Max:    slices.Max(distances),
		Mean:   sum / len(distances),
		StdDev: stat.PopStdDev(values, nil),
	}, nil
}
