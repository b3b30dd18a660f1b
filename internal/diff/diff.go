// Package diff compares two water-quality assessments and highlights
// regressions and improvements per parameter.
package diff

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// Direction values for a ParameterChange.
const (
	Regression  = "regression"
	Improvement = "improvement"
	Unchanged   = "unchanged"
)

// DiffReport contains the comparison between two assessments.
type DiffReport struct {
	Baseline     string            `json:"baseline"`
	Current      string            `json:"current"`
	Changes      []ParameterChange `json:"changes"`
	Regressions  int               `json:"regressions"`
	Improvements int               `json:"improvements"`
	HealthDelta  int               `json:"health_delta"` // positive = improved
	RiskDelta    int               `json:"risk_delta"`   // positive = worse
	OldRisk      model.RiskStatus  `json:"old_risk_status"`
	NewRisk      model.RiskStatus  `json:"new_risk_status"`
}

// ParameterChange represents a single parameter difference.
type ParameterChange struct {
	Parameter    model.Parameter `json:"parameter"`
	OldValue     float64         `json:"old_value"`
	NewValue     float64         `json:"new_value"`
	Delta        float64         `json:"delta"`
	DeltaPct     float64         `json:"delta_pct"`
	OldStatus    model.Status    `json:"old_status"`
	NewStatus    model.Status    `json:"new_status"`
	Direction    string          `json:"direction"`
	Significance string          `json:"significance"` // "high", "medium", "low"
}

// LoadAssessment reads a JSON file holding either an Assessment or a bare
// Reading. A bare reading is assessed without noise.
func LoadAssessment(path string) (*model.Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var probe struct {
		Input *model.Reading `json:"input_values"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if probe.Input != nil {
		var a model.Assessment
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return &a, nil
	}

	var r model.Reading
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a := model.Assess(r, nil)
	return &a, nil
}

// Compare computes differences between two assessments.
func Compare(baseline, current *model.Assessment) *DiffReport {
	d := &DiffReport{
		Baseline:    label(baseline),
		Current:     label(current),
		HealthDelta: current.HealthScore - baseline.HealthScore,
		RiskDelta:   current.DiseaseRisk - baseline.DiseaseRisk,
		OldRisk:     baseline.RiskStatus,
		NewRisk:     current.RiskStatus,
	}

	for _, p := range model.Parameters() {
		addChange(d, p, baseline.Reading.Value(p), current.Reading.Value(p))
	}

	for _, c := range d.Changes {
		switch c.Direction {
		case Regression:
			d.Regressions++
		case Improvement:
			d.Improvements++
		}
	}
	return d
}

func label(a *model.Assessment) string {
	if !a.Reading.Timestamp.IsZero() {
		return a.Reading.Timestamp.Format("2006-01-02T15:04:05Z07:00")
	}
	return fmt.Sprintf("score %d", a.HealthScore)
}

func addChange(d *DiffReport, p model.Parameter, oldVal, newVal float64) {
	delta := newVal - oldVal
	deltaPct := 0.0
	if oldVal != 0 {
		deltaPct = (delta / math.Abs(oldVal)) * 100
	}

	oldStatus := model.Classify(p, oldVal)
	newStatus := model.Classify(p, newVal)

	// Skip negligible changes that do not move the status.
	if oldStatus == newStatus && math.Abs(deltaPct) < 1.0 && math.Abs(delta) < 0.01 {
		return
	}

	direction := Unchanged
	switch {
	case newStatus.Worse(oldStatus):
		direction = Regression
	case oldStatus.Worse(newStatus):
		direction = Improvement
	}

	significance := "low"
	absPct := math.Abs(deltaPct)
	if absPct >= 50 || direction != Unchanged && newStatus == model.StatusCritical {
		significance = "high"
	} else if absPct >= 20 || direction != Unchanged {
		significance = "medium"
	}

	d.Changes = append(d.Changes, ParameterChange{
		Parameter:    p,
		OldValue:     oldVal,
		NewValue:     newVal,
		Delta:        delta,
		DeltaPct:     deltaPct,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Direction:    direction,
		Significance: significance,
	})
}

// FormatDiff returns a human-readable diff summary.
func FormatDiff(d *DiffReport) string {
	var sb strings.Builder

	sb.WriteString("=== Water Quality Diff ===\n")
	sb.WriteString(fmt.Sprintf("Baseline: %s (%s)\n", d.Baseline, d.OldRisk))
	sb.WriteString(fmt.Sprintf("Current:  %s (%s)\n\n", d.Current, d.NewRisk))

	symbol := "→"
	if d.HealthDelta > 0 {
		symbol = "↑"
	} else if d.HealthDelta < 0 {
		symbol = "↓"
	}
	sb.WriteString(fmt.Sprintf("Health Score: %+d %s\n", d.HealthDelta, symbol))
	sb.WriteString(fmt.Sprintf("Disease Risk: %+d\n", d.RiskDelta))
	sb.WriteString(fmt.Sprintf("Regressions: %d, Improvements: %d\n\n", d.Regressions, d.Improvements))

	if d.Regressions > 0 {
		sb.WriteString("⚠ Regressions:\n")
		writeChanges(&sb, d.Changes, Regression)
		sb.WriteString("\n")
	}
	if d.Improvements > 0 {
		sb.WriteString("✓ Improvements:\n")
		writeChanges(&sb, d.Changes, Improvement)
	}
	return sb.String()
}

func writeChanges(sb *strings.Builder, changes []ParameterChange, direction string) {
	for _, c := range changes {
		if c.Direction != direction {
			continue
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s: %.2f → %.2f %s (%s → %s)\n",
			strings.ToUpper(c.Significance), c.Parameter.Title(),
			c.OldValue, c.NewValue, c.Parameter.Unit(), c.OldStatus, c.NewStatus))
	}
}
