package output

import (
	"fmt"
	"strings"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/forecast"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/simulate"
)

// FormatAssessment renders an assessment for the terminal.
func FormatAssessment(a *model.Assessment) string {
	var sb strings.Builder
	sb.WriteString("=== Water Quality Assessment ===\n\n")
	fmt.Fprintf(&sb, "Health Score: %d/100 (%s)\n", a.HealthScore, a.Band.Label)
	fmt.Fprintf(&sb, "Disease Risk: %d%%\n", a.DiseaseRisk)
	fmt.Fprintf(&sb, "Risk Status:  %s\n\n", a.RiskStatus)

	sb.WriteString("Parameters:\n")
	for _, p := range model.Parameters() {
		status := a.ParameterStatus[p]
		fmt.Fprintf(&sb, "  %-18s %10.3f %-5s [%s]\n", p.Title(), a.Reading.Value(p), p.Unit(), strings.ToUpper(string(status)))
	}

	if len(a.Solutions) > 0 {
		sb.WriteString("\nActions:\n")
		for _, s := range a.Solutions {
			fmt.Fprintf(&sb, "  [%s] %s: %s\n", strings.ToUpper(string(s.Severity)), s.Param, s.Issue)
			fmt.Fprintf(&sb, "      %s\n", s.Solution)
		}
	}
	if len(a.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, p := range model.Parameters() {
			if s, ok := a.Suggestions[p]; ok {
				fmt.Fprintf(&sb, "  - %s\n", s)
			}
		}
	}

	fmt.Fprintf(&sb, "\nRecommendation: %s\n", a.Recommendation)
	return sb.String()
}

// FormatSweep renders sweep points as a table.
func FormatSweep(p model.Parameter, points []simulate.SweepPoint) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Sweep: %s ===\n\n", p.Title())
	fmt.Fprintf(&sb, "%12s %8s %8s  %s\n", "Value", "Health", "Risk", "Status")
	for _, pt := range points {
		fmt.Fprintf(&sb, "%12.3f %8d %7d%%  %s\n", pt.Value, pt.HealthScore, pt.DiseaseRisk, pt.Status)
	}
	return sb.String()
}

// FormatForecast renders the end of each projection and the insights.
func FormatForecast(f *forecast.Forecast) string {
	var sb strings.Builder
	sb.WriteString("=== Forecast ===\n\n")
	fmt.Fprintf(&sb, "Start: %s\n", f.StartTime.Format("2006-01-02 15:04:05"))
	for _, p := range model.Parameters() {
		proj, ok := f.Projections[p]
		if !ok || len(proj) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %-18s %10.3f -> %10.3f %s (%d steps)\n",
			p.Title(), proj[0], proj[len(proj)-1], p.Unit(), len(proj))
	}
	if len(f.Insights) == 0 {
		sb.WriteString("\nNo threshold crossings expected.\n")
		return sb.String()
	}
	sb.WriteString("\nInsights:\n")
	for _, in := range f.Insights {
		fmt.Fprintf(&sb, "  ! %s\n", in)
	}
	return sb.String()
}
