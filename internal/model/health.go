package model

import "math"

// Ideal operating points used by the continuous health score.
const (
	idealTemperature = 28.0
	idealPH          = 7.5
	minOxygen        = 6.0
)

// Penalty weights per unit of deviation.
const (
	temperatureWeight = 1.0
	phWeight          = 5.0
	ammoniaWeight     = 100.0
	oxygenWeight      = 4.0
	turbidityWeight   = 0.1
)

// ComputeHealthScore computes a 0-100 water health score.
// 100 = ideal, 0 = uninhabitable.
// The penalty grows linearly with distance from the ideal operating point,
// so the score has no jumps at band edges. Salinity does not contribute.
func ComputeHealthScore(r Reading) int {
	penalty := math.Abs(r.Temperature-idealTemperature)*temperatureWeight +
		math.Abs(r.PH-idealPH)*phWeight +
		r.Ammonia*ammoniaWeight +
		math.Max(0, minOxygen-r.DissolvedOxygen)*oxygenWeight +
		r.Turbidity*turbidityWeight

	return clampScore(100 - penalty)
}

// clampScore rounds v half away from zero and clamps it to [0, 100].
func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// HealthBand is the gauge classification of a health score.
type HealthBand struct {
	Min    int    `json:"min"`
	Max    int    `json:"max"`
	Status string `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// HealthBands lists the gauge bands from best to worst.
var HealthBands = []HealthBand{
	{Min: 71, Max: 100, Status: "good", Label: "Optimal", Color: "#10b981"},
	{Min: 41, Max: 70, Status: "moderate", Label: "Moderate", Color: "#eab308"},
	{Min: 0, Max: 40, Status: "critical", Label: "Critical", Color: "#ef4444"},
}

// BandFor returns the band containing score. Out-of-range scores fall into
// the nearest band.
func BandFor(score int) HealthBand {
	for _, b := range HealthBands {
		if score >= b.Min && score <= b.Max {
			return b
		}
	}
	if score > 100 {
		return HealthBands[0]
	}
	return HealthBands[len(HealthBands)-1]
}
