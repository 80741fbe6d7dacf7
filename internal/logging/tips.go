package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/linuxmatters/ticktock/internal/processor"
)

// TimingTip represents a single piece of actionable advice derived from a
// timing analysis.
type TimingTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "mains_hum")
}

// MaxTimingTips is the maximum number of tips to return.
const MaxTimingTips = 5

// jitterLimitMillis is the standard deviation above which timing is unsteady
const jitterLimitMillis = 5.0

// GenerateTimingTips inspects an analysis result and returns prioritised
// suggestions for a better measurement.
func GenerateTimingTips(r *processor.AnalysisResult) []TimingTip {
	if r == nil {
		return nil
	}

	var tips []TimingTip
	firedRules := make(map[string]bool)

	rules := []func(*processor.AnalysisResult) *TimingTip{
		tipDegenerateThreshold,
		tipThresholdNearNoise,
		tipClipping,
		tipMainsHum,
		tipHighJitter,
		tipUnevenDistances,
		tipStereoInput,
	}

	for _, rule := range rules {
		if tip := rule(r); tip != nil {
			tips = append(tips, *tip)
			firedRules[tip.RuleID] = true
		}
	}

	tips = applyExclusions(tips, firedRules)

	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	if len(tips) > MaxTimingTips {
		tips = tips[:MaxTimingTips]
	}

	return tips
}

// applyExclusions removes tips that are redundant when a more specific tip
// has already fired.
func applyExclusions(tips []TimingTip, fired map[string]bool) []TimingTip {
	var result []TimingTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "uneven_distances":
			if fired["high_jitter"] {
				continue
			}
		case "threshold_near_noise":
			if fired["degenerate_threshold"] {
				continue
			}
		}
		result = append(result, tip)
	}
	return result
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// tipDegenerateThreshold fires when the threshold could not separate
// sound from silence, which happens on digital silence.
func tipDegenerateThreshold(r *processor.AnalysisResult) *TimingTip {
	if r.Segmentation.Degenerate == nil {
		return nil
	}
	return &TimingTip{
		Priority: 10,
		Message:  "The threshold is zero so every sample counts as sound. Check the recording is not silent, or pass --threshold explicitly.",
		RuleID:   "degenerate_threshold",
	}
}

// tipThresholdNearNoise fires when the click peak is less than four times
// the estimated noise floor, so noise bursts may register as onsets.
func tipThresholdNearNoise(r *processor.AnalysisResult) *TimingTip {
	if r.Levels == nil || r.Levels.NoiseFloor <= 0 {
		return nil
	}
	if r.Levels.Peak >= 4*r.Levels.NoiseFloor {
		return nil
	}
	return &TimingTip{
		Priority: 8,
		Message: fmt.Sprintf("The peak level (%d) is close to the noise floor (%d). Record the clicks louder or closer to reduce false onsets.",
			r.Levels.Peak, r.Levels.NoiseFloor),
		RuleID: "threshold_near_noise",
	}
}

// tipClipping fires when any sample reached digital full scale.
func tipClipping(r *processor.AnalysisResult) *TimingTip {
	if r.Clipped == 0 {
		return nil
	}
	return &TimingTip{
		Priority: 7,
		Message:  fmt.Sprintf("%d samples hit full scale. Lower the input gain; clipped transients blur onset positions.", r.Clipped),
		RuleID:   "clipping",
	}
}

// tipMainsHum fires when the quietest window is dominated by the local
// mains frequency.
func tipMainsHum(r *processor.AnalysisResult) *TimingTip {
	if !r.Hum.Present() {
		return nil
	}
	return &TimingTip{
		Priority: 6,
		Message: fmt.Sprintf("Mains hum at %d Hz makes up %.0f%% of the background. Check for ground loops or use a balanced connection.",
			r.Hum.MainsHz, r.Hum.Ratio*100),
		RuleID: "mains_hum",
	}
}

// tipHighJitter fires when the standard deviation exceeds jitterLimitMillis.
func tipHighJitter(r *processor.AnalysisResult) *TimingTip {
	if r.Metadata == nil || r.Summary.Count < 2 {
		return nil
	}
	ms := r.Summary.StdDevMillis(r.Metadata.SampleRate)
	if ms < jitterLimitMillis {
		return nil
	}
	return &TimingTip{
		Priority: 5,
		Message: fmt.Sprintf("Timing varies by %.1f ms (standard deviation). If the source should be steady, try a larger --resolution to merge ringing or double triggers.",
			ms),
		RuleID: "high_jitter",
	}
}

// tipUnevenDistances fires when the spread between shortest and longest
// distance exceeds half the mean, usually a missed or doubled onset.
func tipUnevenDistances(r *processor.AnalysisResult) *TimingTip {
	s := r.Summary
	if s.Count < 2 || s.Mean <= 0 || 2*s.Delta() <= s.Mean {
		return nil
	}
	return &TimingTip{
		Priority: 4,
		Message:  "Some distances are far from the average. An onset may have been missed or split; compare the distance list with the recording.",
		RuleID:   "uneven_distances",
	}
}

// tipStereoInput fires when only the first channel of a multi-channel
// file was analysed.
func tipStereoInput(r *processor.AnalysisResult) *TimingTip {
	if r.Metadata == nil || r.Metadata.Channels <= 1 {
		return nil
	}
	return &TimingTip{
		Priority: 3,
		Message:  fmt.Sprintf("Only the first of %d channels was analysed. Export a mono file if the clicks are on another channel.", r.Metadata.Channels),
		RuleID:   "stereo_input",
	}
}
