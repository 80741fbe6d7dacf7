// Package logging provides analysis report generation for timing runs.
// This file contains the table formatting used for aligned statistics
// columns (Samples, Milliseconds).

package logging

import (
	"fmt"
	"math"
	"strings"

	"github.com/linuxmatters/ticktock/internal/timing"
)

// MetricRow represents a single row in a statistics table.
// Values are pre-formatted strings to allow for mixed formatting.
type MetricRow struct {
	Label          string   // Row label, e.g., "Minimum"
	Values         []string // One value per column
	Unit           string   // Unit suffix, "" for unitless
	Interpretation string   // Optional interpretation text (only shown if non-empty)
}

// MetricTable formats aligned columns for metric display.
// Handles variable column widths, missing values, and optional interpretation column.
type MetricTable struct {
	Headers []string
	Rows    []MetricRow
}

// String renders the table with aligned columns.
// - Labels are left-aligned
// - Numeric values are right-aligned within their column
// - Units are appended after the last value column
// - Interpretation column only shown if any row has one
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	hasInterpretation := false
	for _, row := range t.Rows {
		if row.Interpretation != "" {
			hasInterpretation = true
			break
		}
	}

	labelWidth := 0
	for _, row := range t.Rows {
		labelWidth = max(labelWidth, len(row.Label))
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	unitWidth := 0
	for _, row := range t.Rows {
		unitWidth = max(unitWidth, len(row.Unit))
	}

	var sb strings.Builder

	// Header row
	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
	}
	if unitWidth > 0 {
		sb.WriteString(strings.Repeat(" ", unitWidth+1))
	}
	if hasInterpretation {
		sb.WriteString("Interpretation")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))

		for i := 0; i < len(t.Headers); i++ {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}

		if unitWidth > 0 {
			sb.WriteString(fmt.Sprintf("%-*s ", unitWidth, row.Unit))
		}
		if hasInterpretation {
			sb.WriteString(row.Interpretation)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// MissingValue is the placeholder for unavailable measurements
const MissingValue = "-"

// formatMetric formats a numeric value with appropriate precision.
// Handles:
// - Regular floats: formatted to specified decimal places
// - Very small values (< 0.0001): scientific notation
// - NaN/Inf: returns MissingValue
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}

	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}

	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value)
}

// formatMetricWithUnit combines value and unit for display.
// Returns "value unit" if unit is non-empty, otherwise just "value".
func formatMetricWithUnit(value float64, decimals int, unit string) string {
	formatted := formatMetric(value, decimals)
	if formatted == MissingValue || unit == "" {
		return formatted
	}
	return formatted + " " + unit
}

// samplesToMillis converts a sample count at sampleRate to milliseconds,
// or NaN when the rate is unknown.
func samplesToMillis(samples float64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return math.NaN()
	}
	return samples * 1000 / float64(sampleRate)
}

// NewMetricTable creates a new MetricTable with Samples/Milliseconds headers.
func NewMetricTable() *MetricTable {
	return &MetricTable{
		Headers: []string{"Samples", "Milliseconds"},
		Rows:    make([]MetricRow, 0),
	}
}

// AddRow adds a row to the table with pre-formatted values.
func (t *MetricTable) AddRow(label string, values []string, unit string, interpretation string) {
	t.Rows = append(t.Rows, MetricRow{
		Label:          label,
		Values:         values,
		Unit:           unit,
		Interpretation: interpretation,
	})
}

// AddDistanceRow adds a row showing a distance in samples and milliseconds.
func (t *MetricTable) AddDistanceRow(label string, samples float64, decimals int, sampleRate int, interpretation string) {
	t.AddRow(label, []string{
		formatMetric(samples, decimals),
		formatMetric(samplesToMillis(samples, sampleRate), 3),
	}, "", interpretation)
}

// NewStatsTable builds the statistics block for a distance summary.
func NewStatsTable(s timing.Summary, sampleRate int) *MetricTable {
	table := NewMetricTable()
	table.AddDistanceRow("Minimum", float64(s.Min), 0, sampleRate, "")
	table.AddDistanceRow("Maximum", float64(s.Max), 0, sampleRate, "")
	table.AddDistanceRow("Average", float64(s.Mean), 0, sampleRate, interpretTempo(s.Mean, sampleRate))
	table.AddDistanceRow("Delta", float64(s.Delta()), 0, sampleRate, "")
	table.AddDistanceRow("Std deviation", s.StdDev, 2, sampleRate, interpretJitter(s.StdDevMillis(sampleRate)))
	return table
}

// interpretTempo expresses the mean interval as events per minute.
func interpretTempo(meanSamples, sampleRate int) string {
	if meanSamples <= 0 || sampleRate <= 0 {
		return ""
	}
	bpm := 60 * float64(sampleRate) / float64(meanSamples)
	return formatMetricWithUnit(bpm, 2, "per minute")
}

// interpretJitter describes timing stability from the standard deviation.
func interpretJitter(ms float64) string {
	switch {
	case math.IsNaN(ms) || ms < 0:
		return ""
	case ms < 0.1:
		return "sample-accurate"
	case ms < 1:
		return "tight"
	case ms < 5:
		return "noticeable jitter"
	default:
		return "unsteady"
	}
}
