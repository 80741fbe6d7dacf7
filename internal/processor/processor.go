// Package processor runs the timing analysis pipeline over an audio file
package processor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/linuxmatters/ticktock/internal/audio"
	"github.com/linuxmatters/ticktock/internal/config"
	"github.com/linuxmatters/ticktock/internal/mains"
	"github.com/linuxmatters/ticktock/internal/timing"
)

// ErrIncompleteTraversal is returned when segmentation stopped before the
// final sample.
var ErrIncompleteTraversal = errors.New("segmentation did not reach the last sample")

// Stage identifies a pipeline step for progress reporting
type Stage int

const (
	StageLoading Stage = iota
	StageEstimating
	StageSegmenting
	StageReducing
)

func (s Stage) String() string {
	switch s {
	case StageLoading:
		return "Loading"
	case StageEstimating:
		return "Estimating"
	case StageSegmenting:
		return "Segmenting"
	case StageReducing:
		return "Reducing"
	default:
		return "Unknown"
	}
}

// ProgressFunc receives stage progress in the range 0.0 to 1.0
type ProgressFunc func(stage Stage, progress float64)

// Estimator derives detection levels from the full sample sequence
type Estimator interface {
	Estimate(samples []int, resolution int) (timing.Levels, error)
}

// Segmenter finds onsets in a sample source
type Segmenter interface {
	Segment(threshold, resolution int, src timing.Source) (timing.Segmentation, error)
}

// Reducer turns onsets into distances
type Reducer interface {
	Reduce(onsets []int, beats int) ([]int, error)
}

// Reporter computes statistics over distances
type Reporter interface {
	Report(distances []int) (timing.Summary, timing.Histogram, error)
}

// Pipeline composes the analysis stages. Zero-value fields fall back to the
// timing package implementations.
type Pipeline struct {
	Estimator Estimator
	Segmenter Segmenter
	Reducer   Reducer
	Reporter  Reporter

	// MainsHz returns the local mains frequency for hum measurement
	MainsHz func() int

	Logger   *slog.Logger
	Progress ProgressFunc
}

// AnalysisResult contains everything measured for one recording
type AnalysisResult struct {
	InputPath string
	Metadata  *audio.Metadata

	Threshold     int
	AutoThreshold bool
	Levels        *timing.Levels // nil when the threshold was given
	Resolution    int
	Beats         int

	Segmentation timing.Segmentation
	Distances    []int
	Summary      timing.Summary
	Histogram    timing.Histogram

	Clipped int // samples at digital full scale
	Hum     HumMeasurement
}

// AnalyzeFile decodes inputPath and runs the full pipeline with default
// components.
func AnalyzeFile(inputPath string, opts config.Analysis, logger *slog.Logger, progress ProgressFunc) (*AnalysisResult, error) {
	p := &Pipeline{Logger: logger, Progress: progress}
	return p.AnalyzeFile(inputPath, opts)
}

// AnalyzeFile decodes inputPath and analyses its first channel.
func (p *Pipeline) AnalyzeFile(inputPath string, opts config.Analysis) (*AnalysisResult, error) {
	p.report(StageLoading, 0)
	reader, metadata, err := audio.OpenAudioFile(inputPath)
	if err != nil {
		return nil, err
	}
	p.report(StageLoading, 1)

	p.logger().Debug("loaded audio",
		"path", inputPath,
		"samples", metadata.SampleCount,
		"rate", metadata.SampleRate,
		"bits", metadata.BitDepth,
		"channels", metadata.Channels)

	result, err := p.Analyze(reader.Samples(), metadata, opts)
	if result != nil {
		result.InputPath = inputPath
	}
	return result, err
}

// Analyze runs estimation, segmentation and reduction over samples.
// On insufficient data the partially filled result is returned together with
// the error so callers can report the parameters that were used.
func (p *Pipeline) Analyze(samples []int, metadata *audio.Metadata, opts config.Analysis) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := p.logger()

	result := &AnalysisResult{
		Metadata:   metadata,
		Threshold:  opts.Threshold,
		Resolution: opts.ResolveResolution(metadata.SampleRate),
		Beats:      opts.Beats,
		Clipped:    ClippedSamples(samples, metadata.BitDepth),
	}
	if opts.Resolution == 0 {
		log.Debug("derived resolution from sample rate", "resolution", result.Resolution)
	}

	if result.Threshold == 0 {
		p.report(StageEstimating, 0)
		levels, err := p.estimator().Estimate(samples, result.Resolution)
		if err != nil {
			return result, fmt.Errorf("estimate threshold: %w", err)
		}
		result.Levels = &levels
		result.Threshold = levels.Threshold()
		result.AutoThreshold = true
		log.Debug("estimated threshold",
			"noise_floor", levels.NoiseFloor,
			"peak", levels.Peak,
			"threshold", result.Threshold)
		p.report(StageEstimating, 1)
	}

	result.Hum = MeasureHum(samples, metadata.SampleRate, p.mainsHz(), result.Threshold)

	p.report(StageSegmenting, 0)
	cursor := timing.NewSliceCursor(samples)
	if p.Progress != nil && len(samples) > 0 {
		cursor.ReportEvery = max(len(samples)/100, 1)
		cursor.OnAdvance = func(consumed int) {
			p.report(StageSegmenting, float64(consumed)/float64(len(samples)))
		}
	}
	seg, err := p.segmenter().Segment(result.Threshold, result.Resolution, cursor)
	if err != nil {
		return result, fmt.Errorf("segment: %w", err)
	}
	result.Segmentation = seg
	log.Debug("segmentation finished",
		"onsets", len(seg.Onsets),
		"last_index", seg.LastIndex,
		"final_state", seg.FinalState.String())
	if seg.Degenerate != nil {
		log.Warn("degenerate segmentation", "reason", seg.Degenerate.Reason)
	}
	if !seg.Complete(len(samples)) {
		return result, fmt.Errorf("%w: stopped at %d of %d", ErrIncompleteTraversal, seg.LastIndex, len(samples))
	}
	p.report(StageSegmenting, 1)

	p.report(StageReducing, 0)
	distances, err := p.reducer().Reduce(seg.Onsets, result.Beats)
	if err != nil {
		return result, err
	}
	result.Distances = distances

	summary, histogram, err := p.reporter().Report(distances)
	if err != nil {
		return result, err
	}
	result.Summary = summary
	result.Histogram = histogram
	if histogram.Degenerate != nil {
		log.Debug("histogram width fallback", "reason", histogram.Degenerate.Reason)
	}
	p.report(StageReducing, 1)

	return result, nil
}

// Describe turns an analysis error into a one-line diagnostic. Insufficient
// data is reported with the parameters that found nothing.
func Describe(result *AnalysisResult, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, timing.ErrInsufficientData) && result != nil && len(result.Segmentation.Onsets) < 2 {
		return fmt.Sprintf("No sounds found with threshold %d and min %d samples of silence",
			result.Threshold, result.Resolution)
	}
	return err.Error()
}

func (p *Pipeline) report(stage Stage, progress float64) {
	if p.Progress != nil {
		p.Progress(stage, progress)
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (p *Pipeline) mainsHz() int {
	if p.MainsHz != nil {
		return p.MainsHz()
	}
	return mains.Frequency()
}

func (p *Pipeline) estimator() Estimator {
	if p.Estimator != nil {
		return p.Estimator
	}
	return levelEstimator{}
}

func (p *Pipeline) segmenter() Segmenter {
	if p.Segmenter != nil {
		return p.Segmenter
	}
	return engineSegmenter{}
}

func (p *Pipeline) reducer() Reducer {
	if p.Reducer != nil {
		return p.Reducer
	}
	return beatReducer{}
}

func (p *Pipeline) reporter() Reporter {
	if p.Reporter != nil {
		return p.Reporter
	}
	return StatsReporter{}
}

type levelEstimator struct{}

func (levelEstimator) Estimate(samples []int, resolution int) (timing.Levels, error) {
	return timing.EstimateLevels(samples, resolution)
}

type engineSegmenter struct{}

func (engineSegmenter) Segment(threshold, resolution int, src timing.Source) (timing.Segmentation, error) {
	engine, err := timing.NewEngine(threshold, resolution)
	if err != nil {
		return timing.Segmentation{}, err
	}
	return engine.Segment(src), nil
}

type beatReducer struct{}

func (beatReducer) Reduce(onsets []int, beats int) ([]int, error) {
	return timing.Reducer{Beats: beats}.Reduce(onsets)
}

// StatsReporter summarises distances and buckets them into a histogram
type StatsReporter struct{}

// Report implements Reporter
func (StatsReporter) Report(distances []int) (timing.Summary, timing.Histogram, error) {
	summary, err := timing.Summarize(distances)
	if err != nil {
		return timing.Summary{}, timing.Histogram{}, err
	}
	return summary, timing.BuildHistogram(distances, summary), nil
}
