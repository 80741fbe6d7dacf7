package mains

import "testing"

func TestFrequencyForTimezone(t *testing.T) {
	tests := []struct {
		timezone string
		want     int
	}{
		// 50Hz countries
		{"Europe/London", 50},
		{"Europe/Paris", 50},
		{"Europe/Berlin", 50},
		{"Australia/Sydney", 50},
		{"Asia/Shanghai", 50},
		{"Asia/Tokyo", 50}, // Japan defaults to 50Hz

		// 60Hz countries
		{"America/New_York", 60},
		{"America/Los_Angeles", 60},
		{"America/Chicago", 60},
		{"America/Toronto", 60},
		{"America/Mexico_City", 60},
		{"America/Bogota", 60},    // Colombia
		{"America/Sao_Paulo", 60}, // Brazil
		{"Asia/Seoul", 60},        // South Korea
		{"Asia/Taipei", 60},       // Taiwan
		{"Asia/Manila", 60},       // Philippines

		// Edge cases
		{"UTC", 50},
		{"GMT", 50},
		{"Etc/UTC", 50},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			got := FrequencyForTimezone(tt.timezone)
			if got != tt.want {
				t.Errorf("FrequencyForTimezone(%q) = %d, want %d", tt.timezone, got, tt.want)
			}
		})
	}
}

func TestFrequency(t *testing.T) {
	// Just verify it returns a valid value without panicking
	freq := Frequency()
	if freq != 50 && freq != 60 {
		t.Errorf("Frequency() = %d, want 50 or 60", freq)
	}
}

func TestSamplesPerCycle(t *testing.T) {
	tests := []struct {
		rate, hz, want int
	}{
		{48000, 50, 960},
		{44100, 60, 735},
		{0, 50, 0},
		{48000, 0, 0},
	}
	for _, tt := range tests {
		if got := SamplesPerCycle(tt.rate, tt.hz); got != tt.want {
			t.Errorf("SamplesPerCycle(%d, %d) = %d, want %d", tt.rate, tt.hz, got, tt.want)
		}
	}
}

func TestHarmonics(t *testing.T) {
	got := Harmonics(50, 48000)
	if len(got) != 3 || got[0] != 50 || got[1] != 100 || got[2] != 150 {
		t.Errorf("Harmonics(50, 48000) = %v, want [50 100 150]", got)
	}

	// 8 kHz Nyquist is 4 kHz; nothing above it
	if got := Harmonics(1500, 8000); len(got) != 2 {
		t.Errorf("Harmonics(1500, 8000) = %v, want two entries", got)
	}
}
