// Package audio provides WAV file input using go-audio/wav
package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
	"github.com/linuxmatters/ticktock/internal/timing"
)

// ErrUnsupportedFormat is returned for WAV files whose sample encoding the
// reader cannot decode into integer amplitudes.
var ErrUnsupportedFormat = errors.New("unsupported sample format")

// WAV format tags
const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Reader holds the decoded samples of the first channel of a WAV file
type Reader struct {
	samples []int
}

// Metadata contains audio file metadata
type Metadata struct {
	Duration    float64 // seconds
	SampleRate  int
	Channels    int // channels in the file; only channel 1 is decoded
	SampleFmt   string
	BitDepth    int
	SampleCount int
}

// Mono reports whether the file had a single channel.
func (m *Metadata) Mono() bool {
	return m.Channels == 1
}

// OpenAudioFile decodes a 16 or 24 bit PCM WAV file.
// Multi-channel files are reduced to their first channel.
func OpenAudioFile(filename string) (*Reader, *Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, nil, fmt.Errorf("not a valid WAV file: %s", filename)
	}

	bitDepth := int(decoder.BitDepth)
	if decoder.WavAudioFormat != formatPCM && decoder.WavAudioFormat != formatExtensible {
		return nil, nil, fmt.Errorf("%w: audio format tag %d in %s", ErrUnsupportedFormat, decoder.WavAudioFormat, filename)
	}
	if bitDepth != 16 && bitDepth != 24 {
		return nil, nil, fmt.Errorf("%w: sample width of %d bits in %s", ErrUnsupportedFormat, bitDepth, filename)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		return nil, nil, fmt.Errorf("no audio channels found in file: %s", filename)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode PCM data: %w", err)
	}

	samples := firstChannel(buf.Data, channels)
	sampleRate := int(decoder.SampleRate)

	metadata := &Metadata{
		SampleRate:  sampleRate,
		Channels:    channels,
		SampleFmt:   fmt.Sprintf("s%d", bitDepth),
		BitDepth:    bitDepth,
		SampleCount: len(samples),
	}
	if sampleRate > 0 {
		metadata.Duration = float64(len(samples)) / float64(sampleRate)
	}

	return &Reader{samples: samples}, metadata, nil
}

// firstChannel de-interleaves channel 1 from interleaved PCM data.
func firstChannel(data []int, channels int) []int {
	if channels == 1 {
		return data
	}
	out := make([]int, 0, len(data)/channels)
	for i := 0; i+channels <= len(data); i += channels {
		out = append(out, data[i])
	}
	return out
}

// Samples returns the decoded amplitude values. Callers must not modify them.
func (r *Reader) Samples() []int {
	return r.samples
}

// SampleCount returns the number of decoded samples
func (r *Reader) SampleCount() int {
	return len(r.samples)
}

// Cursor returns a fresh forward cursor over the samples
func (r *Reader) Cursor() *timing.SliceCursor {
	return timing.NewSliceCursor(r.samples)
}

// DurationOf converts a sample count to wall time at rate.
func DurationOf(samples, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(float64(samples) / float64(rate) * float64(time.Second))
}
