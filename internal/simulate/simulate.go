// Package simulate implements the what-if simulator: apply hypothetical
// parameter changes to a baseline reading and preview the scoring outcome.
package simulate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/diff"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// DefaultBaseline is the reading the simulator starts from when none is given.
var DefaultBaseline = model.Reading{
	Temperature:     28,
	PH:              7.5,
	DissolvedOxygen: 6.8,
	Turbidity:       12,
	Salinity:        15,
	Ammonia:         0.01,
}

// Overrides maps parameters to the hypothetical values to apply.
type Overrides map[model.Parameter]float64

// ParseOverride parses "param=value".
func ParseOverride(s string) (model.Parameter, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("override %q: expected param=value", s)
	}
	p, err := model.ParseParameter(name)
	if err != nil {
		return "", 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("override %q: %w", s, err)
	}
	return p, v, nil
}

// Apply returns base with the overrides applied.
func Apply(base model.Reading, o Overrides) model.Reading {
	out := base
	for p, v := range o {
		out = out.With(p, v)
	}
	return out
}

// Result holds a what-if comparison.
type Result struct {
	Baseline model.Assessment `json:"baseline"`
	Scenario model.Assessment `json:"scenario"`
	Diff     *diff.DiffReport `json:"diff"`
}

// Run assesses base and the overridden scenario and compares them. The same
// noise draw is used for both so the risk delta reflects only the change.
func Run(base model.Reading, o Overrides, noise model.NoiseSource) (*Result, error) {
	scenario := Apply(base, o)
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	if noise != nil {
		noise = model.FixedNoise(noise.Float64())
	}
	b := model.Assess(base, noise)
	s := model.Assess(scenario, noise)
	return &Result{
		Baseline: b,
		Scenario: s,
		Diff:     diff.Compare(&b, &s),
	}, nil
}

// SweepPoint is one step of a parameter sweep.
type SweepPoint struct {
	Value       float64      `json:"value"`
	HealthScore int          `json:"health_score"`
	DiseaseRisk int          `json:"disease_risk"`
	Status      model.Status `json:"status"`
}

// MaxSweepSteps bounds the number of sweep intervals.
const MaxSweepSteps = 10000

// Sweep varies p from `from` to `to` in `steps` equal intervals (steps+1
// points) holding the other parameters of base fixed.
func Sweep(base model.Reading, p model.Parameter, from, to float64, steps int, noise model.NoiseSource) ([]SweepPoint, error) {
	if steps < 1 || steps > MaxSweepSteps {
		return nil, fmt.Errorf("sweep steps must be in [1,%d], got %d", MaxSweepSteps, steps)
	}
	points := make([]SweepPoint, 0, steps+1)
	stride := (to - from) / float64(steps)
	for i := 0; i <= steps; i++ {
		v := from + stride*float64(i)
		r := base.With(p, v)
		score := model.Score(r, noise)
		points = append(points, SweepPoint{
			Value:       v,
			HealthScore: score.HealthScore,
			DiseaseRisk: score.DiseaseRisk,
			Status:      score.ParameterStatus[p],
		})
	}
	return points, nil
}

// ParseSweep parses "param:from:to:steps".
func ParseSweep(s string) (model.Parameter, float64, float64, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return "", 0, 0, 0, fmt.Errorf("sweep %q: expected param:from:to:steps", s)
	}
	p, err := model.ParseParameter(parts[0])
	if err != nil {
		return "", 0, 0, 0, err
	}
	from, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("sweep from: %w", err)
	}
	to, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("sweep to: %w", err)
	}
	steps, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("sweep steps: %w", err)
	}
	return p, from, to, steps, nil
}
