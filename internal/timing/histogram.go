package timing

import (
	"math"
	"strings"
)

const (
	// HistogramBuckets is the number of distribution buckets.
	HistogramBuckets = 11
	// HistogramMaxMarks is the widest a bar may render.
	HistogramMaxMarks = 80
)

// Histogram is the bucketed distribution of a distance sequence.
type Histogram struct {
	Counts [HistogramBuckets]int
	Width  float64 // bucket width in samples
	Min    int     // lower edge of bucket 0
	Scale  float64 // counts per mark, never below 1

	// Degenerate is set when the computed width was zero and the width
	// fell back to 1.
	Degenerate *DegenerateInputError
}

// BuildHistogram assigns each distance to one of HistogramBuckets buckets.
// The width spans twice the distance from the mean to the extreme.
func BuildHistogram(distances []int, summary Summary) Histogram {
	h := Histogram{Min: summary.Min}

	extreme := max(summary.Max, summary.Min)
	h.Width = 2 * float64(extreme-summary.Mean) / HistogramBuckets
	if h.Width <= 0 {
		h.Width = 1
		h.Degenerate = &DegenerateInputError{Reason: "zero histogram bucket width"}
	}

	for _, d := range distances {
		h.Counts[h.bucket(d)]++
	}

	largest := 0
	for _, c := range h.Counts {
		largest = max(largest, c)
	}
	h.Scale = math.Max(float64(largest)/HistogramMaxMarks, 1)

	return h
}

// bucket returns the clamped bucket index for value.
func (h Histogram) bucket(value int) int {
	idx := int(math.Floor(float64(value-h.Min) / h.Width))
	if idx < 0 {
		return 0
	}
	if idx >= HistogramBuckets {
		return HistogramBuckets - 1
	}
	return idx
}

// Lower returns the lower edge of bucket i, in samples.
func (h Histogram) Lower(i int) float64 {
	return float64(h.Min) + float64(i)*h.Width
}

// Bars renders each bucket as a run of mark, scaled to HistogramMaxMarks.
func (h Histogram) Bars(mark string) []string {
	bars := make([]string, HistogramBuckets)
	for i, c := range h.Counts {
		bars[i] = strings.Repeat(mark, int(float64(c)/h.Scale))
	}
	return bars
}
