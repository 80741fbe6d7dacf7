package timing

import (
	"fmt"
	"slices"
)

// Levels summarises the block peak distribution of a recording.
type Levels struct {
	NoiseFloor int // twice the median block peak
	Peak       int // largest block peak
	Blocks     int
}

// Threshold places the trigger level midway between the noise floor and the
// peak, where the signal changes fastest.
func (l Levels) Threshold() int {
	return (l.NoiseFloor + l.Peak) / 2
}

// EstimateLevels splits samples into blocks of resolution samples (the last
// block may be shorter) and measures the absolute peak of each block.
func EstimateLevels(samples []int, resolution int) (Levels, error) {
	if resolution < 1 {
		return Levels{}, fmt.Errorf("%w: got %d", ErrInvalidResolution, resolution)
	}

	peaks := BlockPeaks(samples, resolution)
	floor, err := NoiseFloor(peaks)
	if err != nil {
		return Levels{}, err
	}

	return Levels{
		NoiseFloor: floor,
		Peak:       slices.Max(peaks),
		Blocks:     len(peaks),
	}, nil
}

// BlockPeaks returns the maximum magnitude of each consecutive block.
func BlockPeaks(samples []int, size int) []int {
	if size < 1 {
		return nil
	}
	peaks := make([]int, 0, (len(samples)+size-1)/size)
	for start := 0; start < len(samples); start += size {
		end := min(start+size, len(samples))
		peak := 0
		for _, v := range samples[start:end] {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		peaks = append(peaks, peak)
	}
	return peaks
}

// NoiseFloor returns twice the median of the block peaks. A mostly silent
// recording puts the median at the ambient noise ceiling.
func NoiseFloor(peaks []int) (int, error) {
	if len(peaks) == 0 {
		return 0, &InsufficientDataError{Stage: "noise floor", Have: 0, Need: 1}
	}

	sorted := slices.Clone(peaks)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return 2 * sorted[mid], nil
	}
	// 2 * (a+b)/2, exact in integers
	return sorted[mid-1] + sorted[mid], nil
}
