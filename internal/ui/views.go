package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/ticktock/internal/processor"
	"github.com/linuxmatters/ticktock/internal/timing"
)

var (
	accentColor = lipgloss.Color("#A40000")
	mutedColor  = lipgloss.Color("#888888")
	okColor     = lipgloss.Color("#00AA00")
	activeColor = lipgloss.Color("#FFA500")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(mutedColor).Width(16)
	barStyle    = lipgloss.NewStyle().Foreground(accentColor)
	bucketStyle = lipgloss.NewStyle().Foreground(mutedColor).Width(12).Align(lipgloss.Right)
)

// renderHeader renders the application header
func renderHeader(subtitle string) string {
	return titleStyle.Render("Ticktock") + " " +
		mutedStyle.Italic(true).Render(subtitle)
}

// renderProgressView renders the stage list while the pipeline runs
func renderProgressView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader("Timing Analysis"))
	b.WriteString("\n\n")

	if m.FileName == "" {
		b.WriteString("Waiting...")
		return b.String()
	}

	b.WriteString("Analysing: ")
	b.WriteString(fileStyle.Render(m.FileName))
	b.WriteString("\n\n")

	elapsed := time.Since(m.StartTime)
	spinner := lipgloss.NewStyle().Foreground(activeColor).Render(spinnerFrames[m.spinnerIndex])

	for _, stage := range stages {
		b.WriteString(renderStage(m, stage, spinner, elapsed))
		b.WriteString("\n")
	}

	return b.String()
}

// renderStage renders one line of the stage list
func renderStage(m Model, stage processor.Stage, spinner string, elapsed time.Duration) string {
	name := fmt.Sprintf("%-11s", stage.String())

	switch m.StageStatus(stage) {
	case StageComplete:
		icon := lipgloss.NewStyle().Foreground(okColor).Render("✓")
		return fmt.Sprintf(" %s %s", icon, name)
	case StageActive:
		return fmt.Sprintf(" %s %s %s", spinner, name, renderProgressBar(m.Progress, 40, elapsed))
	case StageSkipped:
		return fmt.Sprintf(" %s %s", mutedStyle.Render("-"), mutedStyle.Render(name+"skipped"))
	default:
		icon := mutedStyle.Render("○")
		return fmt.Sprintf(" %s %s", icon, mutedStyle.Render(name))
	}
}

// renderProgressBar renders a progress bar with percentage and elapsed time
func renderProgressBar(progress float64, width int, elapsed time.Duration) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(width))
	empty := width - filled

	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	bar := barStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("━", empty))

	percentage := int(progress * 100)

	return fmt.Sprintf("%s %3d%% [%s]", bar, percentage, formatElapsed(elapsed))
}

// renderCompletion renders the final statistics or the failure
func renderCompletion(m Model) string {
	var b strings.Builder

	if m.Error != nil {
		icon := lipgloss.NewStyle().Foreground(accentColor).Render("✗")
		b.WriteString(fmt.Sprintf("%s %s %s\n", icon, fileStyle.Render(m.FileName), describeError(m)))
		return b.String()
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(okColor).
		Render("✓ Analysis Complete")
	b.WriteString(header)
	b.WriteString("  ")
	b.WriteString(fileStyle.Render(m.FileName))
	b.WriteString("\n\n")

	r := m.Result
	if r == nil {
		return b.String()
	}

	rate := 0
	if r.Metadata != nil {
		rate = r.Metadata.SampleRate
	}
	s := r.Summary
	b.WriteString(renderValue("Threshold", fmt.Sprintf("%d", r.Threshold)))
	b.WriteString(renderValue("Resolution", fmt.Sprintf("%d samples", r.Resolution)))
	b.WriteString(renderValue("Distances", fmt.Sprintf("%d", s.Count)))
	b.WriteString(renderValue("Minimum", formatSamples(s.Min, rate)))
	b.WriteString(renderValue("Maximum", formatSamples(s.Max, rate)))
	b.WriteString(renderValue("Average", formatSamples(s.Mean, rate)))
	b.WriteString(renderValue("Delta", formatSamples(s.Delta(), rate)))
	b.WriteString(renderValue("Std deviation", fmt.Sprintf("%.2f (%.3f ms)", s.StdDev, s.StdDevMillis(rate))))
	if s.Count > 0 {
		b.WriteString("\n")
		b.WriteString(renderHistogram(r.Histogram))
	}

	return b.String()
}

func describeError(m Model) string {
	return processor.Describe(m.Result, m.Error)
}

func renderValue(label, value string) string {
	return labelStyle.Render(label) + " " + value + "\n"
}

func formatSamples(samples, rate int) string {
	if rate <= 0 {
		return fmt.Sprintf("%d", samples)
	}
	return fmt.Sprintf("%d (%.3f ms)", samples, float64(samples)*1000/float64(rate))
}

// renderHistogram draws each bucket with its lower edge and count
func renderHistogram(h timing.Histogram) string {
	var b strings.Builder
	for i, bar := range h.Bars("■") {
		b.WriteString(bucketStyle.Render(fmt.Sprintf("%.1f", h.Lower(i))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %5d ", h.Counts[i])))
		b.WriteString(barStyle.Render(bar))
		b.WriteString("\n")
	}
	return b.String()
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
