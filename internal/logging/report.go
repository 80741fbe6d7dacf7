package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/ticktock/internal/processor"
	"github.com/linuxmatters/ticktock/internal/timing"
)

// distancesPerLine is how many distances are listed on one report line
const distancesPerLine = 10

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// ReportData contains all the information needed to generate an analysis report
type ReportData struct {
	InputPath string
	ReportDir string // empty writes alongside the input
	StartTime time.Time
	EndTime   time.Time
	Result    *processor.AnalysisResult
}

// ReportPath returns where GenerateReport writes the report for data.
// presenter.wav → presenter-timing.log
func ReportPath(data ReportData) string {
	base := strings.TrimSuffix(filepath.Base(data.InputPath), filepath.Ext(data.InputPath)) + "-timing.log"
	dir := data.ReportDir
	if dir == "" {
		dir = filepath.Dir(data.InputPath)
	}
	return filepath.Join(dir, base)
}

// GenerateReport writes a plain text analysis report and returns its path.
//
// Report structure:
// 1. Header - file info and timestamp
// 2. Parameters - threshold, resolution and beats as used
// 3. Traversal - onsets found and where segmentation stopped
// 4. Statistics - Samples/Milliseconds table
// 5. Distances - every measured distance
// 6. Distribution - histogram with bucket lower edges
// 7. Tips - prioritised advice
func GenerateReport(data ReportData) (string, error) {
	logPath := ReportPath(data)

	f, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	if err := WriteReport(f, data); err != nil {
		return "", err
	}
	return logPath, f.Close()
}

// WriteReport renders the report for data to w.
func WriteReport(w io.Writer, data ReportData) error {
	if data.Result == nil {
		return fmt.Errorf("no analysis result to report")
	}
	r := data.Result
	rate := 0
	if r.Metadata != nil {
		rate = r.Metadata.SampleRate
	}

	writeReportHeader(w, data)
	if r.Metadata != nil {
		writeParameters(w, r)
		writeTraversal(w, r)
	}

	if len(r.Distances) > 0 {
		writeSection(w, "Statistics")
		fmt.Fprint(w, NewStatsTable(r.Summary, rate).String())
		fmt.Fprintln(w, "")

		writeDistances(w, r.Distances)
		writeDistribution(w, r.Histogram)
	}

	if tips := GenerateTimingTips(r); len(tips) > 0 {
		writeSection(w, "Tips")
		for _, tip := range tips {
			fmt.Fprintf(w, "- %s\n", wrapText(tip.Message, 76, "  "))
		}
		fmt.Fprintln(w, "")
	}
	return nil
}

func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "Ticktock Timing Report")
	fmt.Fprintln(w, "======================")
	fmt.Fprintf(w, "File: %s\n", filepath.Base(data.InputPath))
	fmt.Fprintf(w, "Analysed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	if !data.StartTime.IsZero() {
		fmt.Fprintf(w, "Analysis time: %s\n", formatDuration(data.EndTime.Sub(data.StartTime)))
	}
	if m := data.Result.Metadata; m != nil {
		fmt.Fprintf(w, "Audio: %d Hz, %d-bit, %s, %s\n",
			m.SampleRate, m.BitDepth, channelName(m.Channels),
			formatDuration(time.Duration(m.Duration*float64(time.Second))))
	}
	fmt.Fprintln(w, "")
}

func writeParameters(w io.Writer, r *processor.AnalysisResult) {
	writeSection(w, "Parameters")

	source := "given"
	if r.AutoThreshold {
		source = "estimated"
	}
	fmt.Fprintf(w, "Threshold:   %d (%s)\n", r.Threshold, source)
	if r.Levels != nil {
		fmt.Fprintf(w, "  Noise floor: %d\n", r.Levels.NoiseFloor)
		fmt.Fprintf(w, "  Peak:        %d\n", r.Levels.Peak)
	}
	fmt.Fprintf(w, "Resolution:  %d samples (%s ms)\n", r.Resolution,
		formatMetric(samplesToMillis(float64(r.Resolution), r.Metadata.SampleRate), 1))
	fmt.Fprintf(w, "Beats:       %d\n", r.Beats)
	fmt.Fprintln(w, "")
}

func writeTraversal(w io.Writer, r *processor.AnalysisResult) {
	writeSection(w, "Traversal")

	seg := r.Segmentation
	fmt.Fprintf(w, "Onsets:      %d\n", len(seg.Onsets))
	fmt.Fprintf(w, "Last sample: %d of %d\n", seg.LastIndex, r.Metadata.SampleCount)
	fmt.Fprintf(w, "Final state: %s\n", seg.FinalState)
	if seg.Degenerate != nil {
		fmt.Fprintf(w, "Warning:     %s\n", seg.Degenerate.Reason)
	}
	if r.Clipped > 0 {
		fmt.Fprintf(w, "Clipped:     %d samples\n", r.Clipped)
	}
	if r.Hum.Measured {
		fmt.Fprintf(w, "Mains hum:   %.0f%% at %d Hz\n", r.Hum.Ratio*100, r.Hum.MainsHz)
	}
	fmt.Fprintln(w, "")
}

func writeDistances(w io.Writer, distances []int) {
	writeSection(w, "Distances")
	for i := 0; i < len(distances); i += distancesPerLine {
		end := min(i+distancesPerLine, len(distances))
		parts := make([]string, 0, end-i)
		for _, d := range distances[i:end] {
			parts = append(parts, fmt.Sprintf("%d", d))
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
	fmt.Fprintln(w, "")
}

func writeDistribution(w io.Writer, h timing.Histogram) {
	writeSection(w, "Distribution")
	if h.Degenerate != nil {
		fmt.Fprintf(w, "(%s, width set to 1)\n", h.Degenerate.Reason)
	}
	for i, bar := range h.Bars("#") {
		fmt.Fprintf(w, "%10.1f %5d %s\n", h.Lower(i), h.Counts[i], bar)
	}
	fmt.Fprintln(w, "")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// channelName returns a human-readable channel name
func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}
