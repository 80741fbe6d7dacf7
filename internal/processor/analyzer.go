package processor

import (
	"math/cmplx"

	"github.com/linuxmatters/ticktock/internal/mains"
	"gonum.org/v1/gonum/dsp/fourier"
)

// humCycles is the analysis window length in mains cycles. A whole number of
// cycles puts the fundamental exactly on an FFT bin.
const humCycles = 10

// HumMeasurement describes mains hum found in the quietest part of a
// recording.
type HumMeasurement struct {
	MainsHz     int
	Ratio       float64 // share of window energy at mains harmonics, 0.0 to 1.0
	WindowStart int
	WindowLen   int
	Measured    bool // false when no suitable quiet window exists
}

// Present reports whether hum dominates the measured window.
func (h HumMeasurement) Present() bool {
	return h.Measured && h.Ratio >= 0.5
}

// MeasureHum finds the quietest non-silent window below threshold and
// measures how much of its energy sits at the mains fundamental and its
// first harmonics.
func MeasureHum(samples []int, sampleRate, mainsHz, threshold int) HumMeasurement {
	h := HumMeasurement{MainsHz: mainsHz}

	cycle := mains.SamplesPerCycle(sampleRate, mainsHz)
	window := cycle * humCycles
	if cycle == 0 || window < 8 || len(samples) < window {
		return h
	}

	start, ok := quietestWindow(samples, window, threshold)
	if !ok {
		return h
	}

	seq := make([]float64, window)
	for i, v := range samples[start : start+window] {
		seq[i] = float64(v)
	}

	fft := fourier.NewFFT(window)
	coeff := fft.Coefficients(nil, seq)

	// Bin k is k*sampleRate/window Hz, so harmonic n of mains is bin n*humCycles
	wanted := make(map[int]bool)
	for n := range mains.Harmonics(mainsHz, sampleRate) {
		bin := (n + 1) * humCycles
		for _, k := range []int{bin - 1, bin, bin + 1} {
			wanted[k] = true
		}
	}

	var total, hum float64
	for k := 1; k < len(coeff); k++ {
		mag := cmplx.Abs(coeff[k])
		energy := mag * mag
		total += energy
		if wanted[k] {
			hum += energy
		}
	}
	if total == 0 {
		return h
	}

	h.Ratio = hum / total
	h.WindowStart = start
	h.WindowLen = window
	h.Measured = true
	return h
}

// quietestWindow returns the start of the non-overlapping window whose peak
// is lowest while still above digital silence and below threshold.
func quietestWindow(samples []int, window, threshold int) (int, bool) {
	best, bestPeak := 0, -1
	for start := 0; start+window <= len(samples); start += window {
		peak := 0
		for _, v := range samples[start : start+window] {
			if v < 0 {
				v = -v
			}
			peak = max(peak, v)
		}
		if peak == 0 || (threshold > 0 && peak >= threshold) {
			continue
		}
		if bestPeak < 0 || peak < bestPeak {
			best, bestPeak = start, peak
		}
	}
	return best, bestPeak >= 0
}

// ClippedSamples counts samples at or beyond digital full scale for the
// given bit depth.
func ClippedSamples(samples []int, bitDepth int) int {
	if bitDepth < 2 || bitDepth > 32 {
		return 0
	}
	full := 1<<(bitDepth-1) - 1
	count := 0
	for _, v := range samples {
		if v >= full || v <= -full-1 {
			count++
		}
	}
	return count
}
