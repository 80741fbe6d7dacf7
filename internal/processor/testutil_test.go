package processor

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// TestClickOptions configures the synthetic click track to generate
type TestClickOptions struct {
	SampleRate int // default: 48000
	Lead       int // samples of silence before the first click
	Clicks     int
	Interval   int // samples between click starts
	ClickLen   int // default: 100
	ClickAmp   int // default: 1000
	NoiseAmp   int // peak of uniform noise added everywhere (0 = none)
	HumAmp     float64
	HumFreq    float64
}

// generateClicks builds a mono click track as integer samples.
func generateClicks(opts TestClickOptions) []int {
	if opts.SampleRate == 0 {
		opts.SampleRate = 48000
	}
	if opts.ClickLen == 0 {
		opts.ClickLen = 100
	}
	if opts.ClickAmp == 0 {
		opts.ClickAmp = 1000
	}

	total := opts.Lead + opts.Clicks*opts.Interval
	samples := make([]int, total)

	// Simple LCG random number generator for deterministic noise
	rngState := uint32(12345)
	nextNoise := func() int {
		rngState = rngState*1664525 + 1013904223
		return int(rngState%uint32(2*opts.NoiseAmp+1)) - opts.NoiseAmp
	}

	for i := range samples {
		v := 0.0
		if opts.HumAmp > 0 {
			v += opts.HumAmp * math.Sin(2*math.Pi*opts.HumFreq*float64(i)/float64(opts.SampleRate))
		}
		if opts.NoiseAmp > 0 {
			v += float64(nextNoise())
		}

		if i >= opts.Lead {
			offset := (i - opts.Lead) % opts.Interval
			if offset < opts.ClickLen {
				// alternate polarity like a ringing transducer
				if offset%2 == 0 {
					v += float64(opts.ClickAmp)
				} else {
					v -= float64(opts.ClickAmp)
				}
			}
		}
		samples[i] = int(math.Round(v))
	}
	return samples
}

// writeTestWAV writes mono 16-bit samples to a temporary WAV file.
func writeTestWAV(t *testing.T, samples []int, sampleRate int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clicks.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write WAV data: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalise WAV file: %v", err)
	}
	return path
}

func fixedMains(hz int) func() int {
	return func() int { return hz }
}
