package model

import (
	"math"
	"testing"
)

// TestHealthScoreScenarios checks the documented reference readings.
func TestHealthScoreScenarios(t *testing.T) {
	tests := []struct {
		name    string
		reading Reading
		want    int
	}{
		{
			// penalty = 0 + 0 + 1 + 0 + 1.23 = 2.23 -> 97.77 -> 98
			name:    "near ideal",
			reading: Reading{Temperature: 28, PH: 7.5, Ammonia: 0.01, DissolvedOxygen: 6.8, Turbidity: 12.3},
			want:    98,
		},
		{
			// penalty = 7 + 7.5 + 10 + 12 + 4 = 40.5 -> 59.5 -> 60
			name:    "stressed pond",
			reading: Reading{Temperature: 35, PH: 9.0, Ammonia: 0.1, DissolvedOxygen: 3.0, Turbidity: 40},
			want:    60,
		},
		{
			name:    "perfect",
			reading: Reading{Temperature: 28, PH: 7.5, DissolvedOxygen: 8},
			want:    100,
		},
		{
			name:    "clamped at zero",
			reading: Reading{Temperature: 5, PH: 2, Ammonia: 2, DissolvedOxygen: 0, Turbidity: 500},
			want:    0,
		},
		{
			name:    "salinity ignored",
			reading: Reading{Temperature: 28, PH: 7.5, DissolvedOxygen: 8, Salinity: 40},
			want:    100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeHealthScore(tc.reading); got != tc.want {
				t.Errorf("ComputeHealthScore() = %d, want %d", got, tc.want)
			}
		})
	}
}

// TestHealthScoreBounded sweeps a wide grid and checks the score stays in [0,100].
func TestHealthScoreBounded(t *testing.T) {
	for temp := -10.0; temp <= 50; temp += 7.5 {
		for ph := 0.0; ph <= 14; ph += 1.75 {
			for do := 0.0; do <= 12; do += 3 {
				r := Reading{Temperature: temp, PH: ph, DissolvedOxygen: do, Turbidity: 30, Ammonia: 0.03}
				score := ComputeHealthScore(r)
				if score < 0 || score > 100 {
					t.Fatalf("score %d out of range for %+v", score, r)
				}
			}
		}
	}
}

// TestHealthScoreMonotonic verifies the score never increases as a single
// parameter moves away from its ideal.
func TestHealthScoreMonotonic(t *testing.T) {
	base := Reading{Temperature: 28, PH: 7.5, DissolvedOxygen: 7, Turbidity: 0, Ammonia: 0}

	tests := []struct {
		param Parameter
		at    func(step float64) float64
	}{
		{Temperature, func(s float64) float64 { return 28 + s }},
		{Temperature, func(s float64) float64 { return 28 - s }},
		{PH, func(s float64) float64 { return 7.5 + s/10 }},
		{PH, func(s float64) float64 { return 7.5 - s/10 }},
		{Ammonia, func(s float64) float64 { return s / 100 }},
		{Turbidity, func(s float64) float64 { return s * 5 }},
		{DissolvedOxygen, func(s float64) float64 { return 7 - s/5 }},
	}

	for _, tc := range tests {
		t.Run(string(tc.param), func(t *testing.T) {
			prev := math.MaxInt
			for step := 0.0; step <= 40; step++ {
				score := ComputeHealthScore(base.With(tc.param, tc.at(step)))
				if score > prev {
					t.Fatalf("step %.0f: score rose from %d to %d", step, prev, score)
				}
				prev = score
			}
		})
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "good"},
		{71, "good"},
		{70, "moderate"},
		{41, "moderate"},
		{40, "critical"},
		{0, "critical"},
		{-5, "critical"},
		{120, "good"},
	}
	for _, tc := range tests {
		if got := BandFor(tc.score).Status; got != tc.want {
			t.Errorf("BandFor(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
