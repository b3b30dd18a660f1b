package model

import (
	"fmt"
	"strings"
)

// OptimalRecommendation is reported when every parameter is optimal.
const OptimalRecommendation = "Water quality is within ideal parameters. Continue regular monitoring."

// RuleConfidence is the confidence of a rule-based assessment.
const RuleConfidence = 100.0

// Score computes the ScoreResult for r.
func Score(r Reading, src NoiseSource) ScoreResult {
	health := ComputeHealthScore(r)
	return ScoreResult{
		HealthScore:     health,
		DiseaseRisk:     diseaseRiskFromScore(health, src),
		ParameterStatus: ClassifyReading(r),
		Suggestions:     SuggestAll(r),
	}
}

// Assess runs the full analysis of r.
func Assess(r Reading, src NoiseSource) Assessment {
	score := Score(r, src)
	return Assessment{
		ScoreResult:    score,
		Reading:        r,
		RiskStatus:     OverallRisk(score.ParameterStatus),
		Band:           BandFor(score.HealthScore),
		Triggers:       Triggers(r),
		Recommendation: Recommendation(r),
		Solutions:      DetailedSolutions(r),
		Confidence:     RuleConfidence,
	}
}

// Triggers lists the non-optimal parameters as human-readable alerts,
// in display order.
func Triggers(r Reading) []string {
	triggers := []string{}
	for _, p := range Parameters() {
		v := r.Value(p)
		switch Classify(p, v) {
		case StatusCritical:
			triggers = append(triggers, fmt.Sprintf("%s %s (Critical)", p.Title(), direction(p, v)))
		case StatusWarning:
			triggers = append(triggers, fmt.Sprintf("%s %s (Warning)", p.Title(), direction(p, v)))
		}
	}
	return triggers
}

// direction reports whether v sits below or above the parameter's range.
func direction(p Parameter, v float64) string {
	t, ok := ThresholdFor(p)
	if !ok {
		return "out of range"
	}
	if v < t.CriticalLow || v < t.WarningLow {
		return "too low"
	}
	return "too high"
}

// Recommendation joins the distinct short remedies of every abnormal
// parameter with " | ".
func Recommendation(r Reading) string {
	var parts []string
	seen := make(map[string]bool)
	for _, p := range Parameters() {
		v := r.Value(p)
		if Classify(p, v) == StatusOptimal {
			continue
		}
		rem := remedy(p, v)
		if rem == "" || seen[rem] {
			continue
		}
		seen[rem] = true
		parts = append(parts, rem)
	}
	if len(parts) == 0 {
		return OptimalRecommendation
	}
	return strings.Join(parts, " | ")
}
