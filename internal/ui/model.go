// Package ui provides the Bubbletea terminal user interface for ticktock
package ui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/ticktock/internal/processor"
)

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stages lists pipeline stages in display order
var stages = []processor.Stage{
	processor.StageLoading,
	processor.StageEstimating,
	processor.StageSegmenting,
	processor.StageReducing,
}

// StageStatus is the display state of one pipeline stage
type StageStatus int

const (
	StagePending StageStatus = iota
	StageActive
	StageComplete
	StageSkipped
)

// Model is the Bubbletea model for a single analysis run
type Model struct {
	// File being analysed
	FileName string
	FilePath string

	// Progress tracking
	Stage     processor.Stage
	Progress  float64 // 0.0 to 1.0 within Stage
	Started   bool    // a progress message has arrived
	seen      map[processor.Stage]bool
	StartTime time.Time

	// Spinner state
	spinnerIndex int

	// Results (populated when complete)
	Result *processor.AnalysisResult
	Error  error
	Done   bool

	// Terminal dimensions
	Width  int
	Height int
}

// tickMsg is sent for spinner/timer animation
type tickMsg time.Time

// NewModel creates a new analysis UI model
func NewModel() Model {
	return Model{
		StartTime: time.Now(),
		seen:      make(map[processor.Stage]bool),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if !m.Done {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case AnalysisStartMsg:
		m.FileName = filepath.Base(msg.FilePath)
		m.FilePath = msg.FilePath
		m.StartTime = time.Now()
		return m, nil

	case AnalysisProgressMsg:
		if m.seen == nil {
			m.seen = make(map[processor.Stage]bool)
		}
		m.Stage = msg.Stage
		m.Progress = msg.Progress
		m.Started = true
		m.seen[msg.Stage] = true
		return m, nil

	case AnalysisCompleteMsg:
		m.Result = msg.Result
		m.Error = msg.Error
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// StageStatus reports how stage should be drawn given the current progress.
// Estimation only runs without an explicit threshold, so a stage that was
// never reported but lies behind the current one is skipped.
func (m Model) StageStatus(stage processor.Stage) StageStatus {
	switch {
	case m.Done && m.Error == nil:
		if m.seen[stage] {
			return StageComplete
		}
		return StageSkipped
	case !m.Started || stage > m.Stage:
		return StagePending
	case stage == m.Stage:
		if m.Progress >= 1 {
			return StageComplete
		}
		return StageActive
	case m.seen[stage]:
		return StageComplete
	default:
		return StageSkipped
	}
}

// View renders the UI
func (m Model) View() string {
	if m.Done {
		return renderCompletion(m)
	}
	if m.Width == 0 {
		return "Initializing..."
	}
	return renderProgressView(m)
}
