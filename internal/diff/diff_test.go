package diff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

func assess(r model.Reading) *model.Assessment {
	a := model.Assess(r, nil)
	return &a
}

func TestCompareAssessments(t *testing.T) {
	baseline := assess(model.Reading{Temperature: 28, PH: 7.5, DissolvedOxygen: 7, Turbidity: 10, Salinity: 15, Ammonia: 0.01})
	current := assess(model.Reading{Temperature: 28, PH: 7.5, DissolvedOxygen: 4.5, Turbidity: 10, Salinity: 15, Ammonia: 0.01})

	d := Compare(baseline, current)

	if d.HealthDelta >= 0 {
		t.Errorf("health delta = %d, want negative", d.HealthDelta)
	}
	if d.Regressions != 1 {
		t.Errorf("regressions = %d, want 1", d.Regressions)
	}
	if d.NewRisk != model.RiskRisk {
		t.Errorf("new risk = %q, want RISK", d.NewRisk)
	}
	if len(d.Changes) != 1 {
		t.Fatalf("changes = %d, want 1 (unchanged parameters skipped)", len(d.Changes))
	}
	c := d.Changes[0]
	if c.Parameter != model.DissolvedOxygen {
		t.Errorf("changed parameter = %q", c.Parameter)
	}
	if c.Direction != Regression || c.Significance != "high" {
		t.Errorf("direction/significance = %q/%q, want regression/high", c.Direction, c.Significance)
	}
	if c.OldStatus != model.StatusOptimal || c.NewStatus != model.StatusCritical {
		t.Errorf("status %q → %q", c.OldStatus, c.NewStatus)
	}
}

func TestCompareImprovement(t *testing.T) {
	baseline := assess(model.Reading{Temperature: 28, PH: 8.3, DissolvedOxygen: 7, Salinity: 15, Ammonia: 0.03})
	current := assess(model.Reading{Temperature: 28, PH: 7.6, DissolvedOxygen: 7, Salinity: 15, Ammonia: 0.01})

	d := Compare(baseline, current)
	if d.Improvements != 2 {
		t.Errorf("improvements = %d, want 2", d.Improvements)
	}
	if d.Regressions != 0 {
		t.Errorf("regressions = %d, want 0", d.Regressions)
	}
	if d.HealthDelta <= 0 {
		t.Errorf("health delta = %d, want positive", d.HealthDelta)
	}
}

func TestCompareUnchangedStatusStillReported(t *testing.T) {
	baseline := assess(model.Reading{Temperature: 22, PH: 7.5, DissolvedOxygen: 7, Salinity: 15})
	current := assess(model.Reading{Temperature: 30, PH: 7.5, DissolvedOxygen: 7, Salinity: 15})

	d := Compare(baseline, current)
	if len(d.Changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(d.Changes))
	}
	if d.Changes[0].Direction != Unchanged {
		t.Errorf("direction = %q, want unchanged", d.Changes[0].Direction)
	}
	if d.Changes[0].Significance != "medium" {
		t.Errorf("significance = %q, want medium (36%% change)", d.Changes[0].Significance)
	}
}

func TestFormatDiff(t *testing.T) {
	baseline := assess(model.Reading{Temperature: 28, PH: 7.5, DissolvedOxygen: 7, Salinity: 15})
	current := assess(model.Reading{Temperature: 28, PH: 9.0, DissolvedOxygen: 7, Salinity: 15})

	out := FormatDiff(Compare(baseline, current))
	for _, want := range []string{"Health Score: -", "↓", "Regressions: 1", "pH: 7.50 → 9.00", "optimal → critical"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDiff output missing %q:\n%s", want, out)
		}
	}
}

func TestLoadAssessment(t *testing.T) {
	dir := t.TempDir()

	readingPath := filepath.Join(dir, "reading.json")
	if err := os.WriteFile(readingPath, []byte(`{"temperature":35,"ph":9,"dissolved_oxygen":3,"turbidity":40,"ammonia":0.1,"salinity":15}`), 0644); err != nil {
		t.Fatal(err)
	}
	a, err := LoadAssessment(readingPath)
	if err != nil {
		t.Fatalf("LoadAssessment(reading): %v", err)
	}
	if a.HealthScore != 60 {
		t.Errorf("health score = %d, want 60", a.HealthScore)
	}

	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`{"temperature":28,"ph":20}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAssessment(badPath); err == nil {
		t.Error("expected validation error for ph=20")
	}

	if _, err := LoadAssessment(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
