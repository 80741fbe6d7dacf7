// Package midilog extracts MIDI clock intervals from MIDI-OX monitor logs.
package midilog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linuxmatters/ticktock/internal/timing"
)

// timingMarker identifies clock lines in a MIDI-OX log.
const timingMarker = "Timing"

// Extract reads a MIDI-OX log and returns the distances between consecutive
// clock messages, in the log's timestamp units. The first field of each
// clock line is its hexadecimal timestamp.
func Extract(r io.Reader) ([]int, error) {
	var (
		distances []int
		last      int64
		seen      bool
		lineNo    int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if !hasField(fields, timingMarker) {
			continue
		}

		timestamp, err := strconv.ParseInt(fields[0], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad timestamp %q: %w", lineNo, fields[0], err)
		}
		if !seen {
			last, seen = timestamp, true
			continue
		}
		distances = append(distances, int(timestamp-last))
		last = timestamp
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if len(distances) == 0 {
		have := 0
		if seen {
			have = 1
		}
		return nil, &timing.InsufficientDataError{Stage: "clock messages", Have: have, Need: 2}
	}
	return distances, nil
}

func hasField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
