package timing

import "fmt"

// Distances returns the gaps between consecutive onsets.
func Distances(onsets []int) ([]int, error) {
	if len(onsets) < 2 {
		return nil, &InsufficientDataError{Stage: "distances", Have: len(onsets), Need: 2}
	}
	distances := make([]int, 0, len(onsets)-1)
	for i := 1; i < len(onsets); i++ {
		distances = append(distances, onsets[i]-onsets[i-1])
	}
	return distances, nil
}

// GroupBeats sums non-overlapping runs of beats distances, so that each
// result spans one beat made of several ticks. An incomplete trailing group
// is discarded. At least two full groups are required.
func GroupBeats(distances []int, beats int) ([]int, error) {
	if beats < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBeats, beats)
	}
	if beats == 1 {
		return append([]int(nil), distances...), nil
	}
	if len(distances) < 2*beats {
		return nil, &InsufficientDataError{Stage: "beats", Have: len(distances), Need: 2 * beats}
	}

	grouped := make([]int, 0, len(distances)/beats)
	for start := 0; start+beats <= len(distances); start += beats {
		sum := 0
		for _, d := range distances[start : start+beats] {
			sum += d
		}
		grouped = append(grouped, sum)
	}
	return grouped, nil
}

// Reducer turns onsets into (optionally grouped) distances.
type Reducer struct {
	Beats int
}

// Reduce applies Distances followed by GroupBeats.
func (r Reducer) Reduce(onsets []int) ([]int, error) {
	distances, err := Distances(onsets)
	if err != nil {
		return nil, err
	}
	beats := r.Beats
	if beats == 0 {
		beats = 1
	}
	return GroupBeats(distances, beats)
}
