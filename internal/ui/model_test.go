package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/ticktock/internal/audio"
	"github.com/linuxmatters/ticktock/internal/processor"
	"github.com/linuxmatters/ticktock/internal/timing"
)

func update(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestModelStageStatus(t *testing.T) {
	m, _ := update(t, NewModel(),
		AnalysisStartMsg{FilePath: "/rec/clicks.wav"},
		AnalysisProgressMsg{Stage: processor.StageLoading, Progress: 0},
		AnalysisProgressMsg{Stage: processor.StageLoading, Progress: 1},
		AnalysisProgressMsg{Stage: processor.StageSegmenting, Progress: 0.5},
	)

	if m.FileName != "clicks.wav" {
		t.Errorf("FileName = %q, want clicks.wav", m.FileName)
	}

	want := map[processor.Stage]StageStatus{
		processor.StageLoading:    StageComplete,
		processor.StageEstimating: StageSkipped,
		processor.StageSegmenting: StageActive,
		processor.StageReducing:   StagePending,
	}
	for stage, status := range want {
		if got := m.StageStatus(stage); got != status {
			t.Errorf("StageStatus(%v) = %v, want %v", stage, got, status)
		}
	}
}

func TestModelBeforeProgress(t *testing.T) {
	m := NewModel()
	for _, stage := range stages {
		if got := m.StageStatus(stage); got != StagePending {
			t.Errorf("StageStatus(%v) = %v, want pending", stage, got)
		}
	}
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q before window size", got)
	}
}

func TestModelProgressView(t *testing.T) {
	m, _ := update(t, NewModel(),
		tea.WindowSizeMsg{Width: 100, Height: 40},
		AnalysisStartMsg{FilePath: "clicks.wav"},
		AnalysisProgressMsg{Stage: processor.StageEstimating, Progress: 0.25},
	)

	view := m.View()
	for _, want := range []string{"Ticktock", "clicks.wav", "Loading", "Estimating", "25%", "Reducing"} {
		if !strings.Contains(view, want) {
			t.Errorf("progress view missing %q:\n%s", want, view)
		}
	}
}

func TestModelComplete(t *testing.T) {
	distances := []int{4800, 4800, 4810}
	summary, _ := timing.Summarize(distances)
	result := &processor.AnalysisResult{
		Metadata:  &audio.Metadata{SampleRate: 48000, Channels: 1},
		Threshold: 500,
		Distances: distances,
		Summary:   summary,
		Histogram: timing.BuildHistogram(distances, summary),
	}

	m, cmd := update(t, NewModel(),
		AnalysisStartMsg{FilePath: "clicks.wav"},
		AnalysisProgressMsg{Stage: processor.StageLoading, Progress: 1},
		AnalysisCompleteMsg{Result: result},
	)
	if !m.Done || cmd == nil {
		t.Fatal("completion should mark the model done and quit")
	}
	if got := m.StageStatus(processor.StageEstimating); got != StageSkipped {
		t.Errorf("StageStatus(Estimating) = %v, want skipped", got)
	}

	view := m.View()
	for _, want := range []string{"Analysis Complete", "Minimum", "4800 (100.000 ms)", "4810"} {
		if !strings.Contains(view, want) {
			t.Errorf("completion view missing %q:\n%s", want, view)
		}
	}
}

func TestModelError(t *testing.T) {
	result := &processor.AnalysisResult{Threshold: 12, Resolution: 2400}
	m, _ := update(t, NewModel(),
		AnalysisStartMsg{FilePath: "silence.wav"},
		AnalysisCompleteMsg{Result: result, Error: &timing.InsufficientDataError{Stage: "distances", Need: 2}},
	)

	if view := m.View(); !strings.Contains(view, "No sounds found with threshold 12 and min 2400 samples of silence") {
		t.Errorf("error view = %q", view)
	}

	m, _ = update(t, NewModel(), AnalysisCompleteMsg{Error: errors.New("boom")})
	if view := m.View(); !strings.Contains(view, "boom") {
		t.Errorf("error view = %q", view)
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	if got := renderProgressBar(1.5, 10, 0); !strings.Contains(got, "100%") {
		t.Errorf("renderProgressBar(1.5) = %q", got)
	}
	if got := renderProgressBar(-1, 10, 0); !strings.Contains(got, "  0%") {
		t.Errorf("renderProgressBar(-1) = %q", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{5, "00:05"},
		{65, "01:05"},
		{3725, "01:02:05"},
	}
	for _, tt := range tests {
		d := time.Duration(tt.seconds) * time.Second
		if got := formatElapsed(d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", d, got, tt.want)
		}
	}
}
