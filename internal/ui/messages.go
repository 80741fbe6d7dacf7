package ui

import (
	"github.com/linuxmatters/ticktock/internal/processor"
)

// AnalysisStartMsg signals analysis has started
type AnalysisStartMsg struct {
	FilePath string
}

// AnalysisProgressMsg represents a progress update from the pipeline
type AnalysisProgressMsg struct {
	Stage    processor.Stage
	Progress float64 // 0.0 to 1.0
}

// AnalysisCompleteMsg signals analysis has finished. Result may be set
// alongside Error when the pipeline stopped part way.
type AnalysisCompleteMsg struct {
	Result *processor.AnalysisResult
	Error  error
}
