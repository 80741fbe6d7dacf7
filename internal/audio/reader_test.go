package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWAV encodes interleaved samples into a temporary WAV file.
func writeTestWAV(t *testing.T, samples []int, sampleRate, bitDepth, channels int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())

	return path
}

func TestOpenAudioFile_Mono16(t *testing.T) {
	samples := []int{0, 100, -100, 32767, -32768, 5}
	path := writeTestWAV(t, samples, 48000, 16, 1)

	reader, meta, err := OpenAudioFile(path)
	require.NoError(t, err)

	assert.Equal(t, samples, reader.Samples())
	assert.Equal(t, len(samples), reader.SampleCount())
	assert.Equal(t, 48000, meta.SampleRate)
	assert.Equal(t, 16, meta.BitDepth)
	assert.Equal(t, "s16", meta.SampleFmt)
	assert.True(t, meta.Mono())
	assert.InDelta(t, float64(len(samples))/48000, meta.Duration, 1e-12)
}

func TestOpenAudioFile_24BitKeepsSign(t *testing.T) {
	samples := []int{-8388608, -1, 0, 1, 8388607}
	path := writeTestWAV(t, samples, 44100, 24, 1)

	reader, meta, err := OpenAudioFile(path)
	require.NoError(t, err)

	assert.Equal(t, samples, reader.Samples())
	assert.Equal(t, 24, meta.BitDepth)
}

func TestOpenAudioFile_StereoUsesFirstChannel(t *testing.T) {
	interleaved := []int{1, -1, 2, -2, 3, -3}
	path := writeTestWAV(t, interleaved, 48000, 16, 2)

	reader, meta, err := OpenAudioFile(path)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, reader.Samples())
	assert.Equal(t, 2, meta.Channels)
	assert.False(t, meta.Mono())
	assert.Equal(t, 3, meta.SampleCount)
}

func TestOpenAudioFile_UnsupportedWidth(t *testing.T) {
	path := writeTestWAV(t, []int{10, 20, 30}, 8000, 8, 1)

	_, _, err := OpenAudioFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenAudioFile_NotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF data"), 0o644))

	_, _, err := OpenAudioFile(path)
	assert.Error(t, err)
}

func TestOpenAudioFile_Missing(t *testing.T) {
	_, _, err := OpenAudioFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestReaderCursor(t *testing.T) {
	reader := &Reader{samples: []int{4, 5}}
	cursor := reader.Cursor()

	s, ok := cursor.Next()
	require.True(t, ok)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 4, s.Value)

	_, ok = cursor.Next()
	require.True(t, ok)
	_, ok = cursor.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, cursor.LastIndex())
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, DurationOf(24000, 48000))
	assert.Equal(t, time.Duration(0), DurationOf(100, 0))
}
