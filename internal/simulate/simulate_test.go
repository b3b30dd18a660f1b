package simulate

import (
	"errors"
	"math"
	"testing"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

func TestGetPresetFallsBack(t *testing.T) {
	if p := GetPreset("does-not-exist"); p.Name != "normal" {
		t.Errorf("unknown preset → %q, want normal", p.Name)
	}
	if p := GetPreset("hypoxia"); p.Overrides[model.DissolvedOxygen] != 3.5 {
		t.Errorf("hypoxia DO override = %v", p.Overrides[model.DissolvedOxygen])
	}
}

func TestPresetNamesSorted(t *testing.T) {
	names := PresetNames()
	want := []string{"ammonia-spike", "heatwave", "hypoxia", "normal", "storm-runoff"}
	if len(names) != len(want) {
		t.Fatalf("PresetNames() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// TestPresetsDegradeBaseline checks every non-normal preset scores lower than
// the default baseline.
func TestPresetsDegradeBaseline(t *testing.T) {
	for _, name := range PresetNames() {
		if name == "normal" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			res, err := Run(DefaultBaseline, GetPreset(name).Overrides, nil)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Diff.HealthDelta >= 0 {
				t.Errorf("health delta = %d, want negative", res.Diff.HealthDelta)
			}
			if res.Scenario.RiskStatus == model.RiskOptimal {
				t.Errorf("scenario risk = OPTIMAL, want worse")
			}
		})
	}
}

func TestApplyDoesNotMutateBase(t *testing.T) {
	base := DefaultBaseline
	out := Apply(base, Overrides{model.PH: 9})
	if base.PH != 7.5 {
		t.Errorf("base mutated: ph = %v", base.PH)
	}
	if out.PH != 9 {
		t.Errorf("override not applied: ph = %v", out.PH)
	}
}

func TestRunRejectsInvalidScenario(t *testing.T) {
	_, err := Run(DefaultBaseline, Overrides{model.Ammonia: -1}, nil)
	if !errors.Is(err, model.ErrInvalidReading) {
		t.Errorf("Run() error = %v, want ErrInvalidReading", err)
	}
}

// stepNoise returns 0, 0.9, 0, 0.9, ... on successive draws.
type stepNoise struct{ n int }

func (s *stepNoise) Float64() float64 {
	s.n++
	if s.n%2 == 0 {
		return 0.9
	}
	return 0
}

func TestRunUsesOneNoiseDraw(t *testing.T) {
	base := DefaultBaseline.With(model.DissolvedOxygen, 3)
	// Salinity does not affect the health score, so only noise could move risk.
	res, err := Run(base, Overrides{model.Salinity: 12}, &stepNoise{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Baseline.DiseaseRisk == 0 {
		t.Fatalf("precondition: baseline risk = 0, score %d", res.Baseline.HealthScore)
	}
	if res.Diff.RiskDelta != 0 {
		t.Errorf("RiskDelta = %d, want 0 (baseline %d, scenario %d)",
			res.Diff.RiskDelta, res.Baseline.DiseaseRisk, res.Scenario.DiseaseRisk)
	}
}

func TestParseOverride(t *testing.T) {
	p, v, err := ParseOverride("do=4.2")
	if err != nil {
		t.Fatalf("ParseOverride: %v", err)
	}
	if p != model.DissolvedOxygen || v != 4.2 {
		t.Errorf("got %s=%v", p, v)
	}

	for _, bad := range []string{"ph", "ph=abc", "chlorine=1"} {
		if _, _, err := ParseOverride(bad); err == nil {
			t.Errorf("ParseOverride(%q) expected error", bad)
		}
	}
}

func TestSweep(t *testing.T) {
	points, err := Sweep(DefaultBaseline, model.PH, 6.0, 9.0, 6, model.FixedNoise(0))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(points) != 7 {
		t.Fatalf("got %d points, want 7", len(points))
	}
	if points[0].Value != 6.0 || points[6].Value != 9.0 {
		t.Errorf("endpoints = %v..%v", points[0].Value, points[6].Value)
	}
	if points[0].Status != model.StatusCritical {
		t.Errorf("ph 6.0 status = %q, want critical", points[0].Status)
	}
	// pH 7.5 is the ideal, highest score of the sweep.
	best := points[3]
	if best.Value != 7.5 {
		t.Fatalf("points[3] = %v, want 7.5", best.Value)
	}
	for _, pt := range points {
		if pt.HealthScore > best.HealthScore {
			t.Errorf("ph %.1f scored %d, above ideal %d", pt.Value, pt.HealthScore, best.HealthScore)
		}
	}

	if _, err := Sweep(DefaultBaseline, model.PH, 6, 9, 0, nil); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestSweepRejectsTooManySteps(t *testing.T) {
	for _, steps := range []int{MaxSweepSteps + 1, math.MaxInt} {
		if _, err := Sweep(DefaultBaseline, model.PH, 6, 9, steps, nil); err == nil {
			t.Errorf("Sweep(steps=%d) error = nil, want bound error", steps)
		}
	}
	points, err := Sweep(DefaultBaseline, model.PH, 6, 9, MaxSweepSteps, nil)
	if err != nil {
		t.Fatalf("Sweep(steps=%d) error = %v", MaxSweepSteps, err)
	}
	if len(points) != MaxSweepSteps+1 {
		t.Errorf("len(points) = %d, want %d", len(points), MaxSweepSteps+1)
	}
}

func TestParseSweep(t *testing.T) {
	p, from, to, steps, err := ParseSweep("temp:20:34:7")
	if err != nil {
		t.Fatalf("ParseSweep: %v", err)
	}
	if p != model.Temperature || from != 20 || to != 34 || steps != 7 {
		t.Errorf("got %s %v %v %d", p, from, to, steps)
	}
	if _, _, _, _, err := ParseSweep("temp:20:34"); err == nil {
		t.Error("expected error for missing steps")
	}
}
