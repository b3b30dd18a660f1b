package output

import (
	"fmt"
	"strings"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// AIContext is a self-contained prompt for handing an assessment to an
// external AI assistant.
type AIContext struct {
	Prompt        string   `json:"prompt"`
	Methodology   string   `json:"methodology"`
	KnownPatterns []string `json:"known_patterns"`
}

// GenerateAIPrompt creates a context-aware prompt for AI analysis of a reading.
func GenerateAIPrompt(a *model.Assessment) *AIContext {
	ctx := &AIContext{
		Methodology:   "Threshold-based water quality assessment for tilapia aquaculture",
		KnownPatterns: knownPondPatterns(),
	}

	var sb strings.Builder
	sb.WriteString("You are an aquaculture water quality expert. ")
	sb.WriteString("Analyze the following pond assessment and provide:\n")
	sb.WriteString("1. Root cause analysis for any abnormal parameters\n")
	sb.WriteString("2. Immediate corrective actions ordered by urgency\n")
	sb.WriteString("3. Disease risk for the stock over the next 24 hours\n")
	sb.WriteString("4. Monitoring priorities until conditions stabilize\n\n")

	if !a.Reading.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("Sampled at: %s\n", a.Reading.Timestamp.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(fmt.Sprintf("Health Score: %d/100 (%s)\n", a.HealthScore, a.Band.Label))
	sb.WriteString(fmt.Sprintf("Disease Risk: %d%%, Overall Status: %s\n\n", a.DiseaseRisk, a.RiskStatus))

	sb.WriteString("Parameters:\n")
	for _, p := range model.Parameters() {
		th := "no thresholds"
		if t, ok := model.ThresholdFor(p); ok {
			th = t.Describe()
		}
		sb.WriteString(fmt.Sprintf("  %s: %g %s [%s] (%s)\n",
			p.Title(), a.Reading.Value(p), p.Unit(), strings.ToUpper(string(a.ParameterStatus[p])), th))
	}

	if len(a.Triggers) > 0 {
		sb.WriteString(fmt.Sprintf("\nActive Alerts (%d):\n", len(a.Triggers)))
		for _, t := range a.Triggers {
			sb.WriteString("  - " + t + "\n")
		}
	}

	critical := 0
	for _, s := range a.ParameterStatus {
		if s == model.StatusCritical {
			critical++
		}
	}
	if critical > 1 {
		sb.WriteString("\nMultiple parameters are critical at once. Look for a shared cause ")
		sb.WriteString("(feeding, stocking density, weather, equipment failure) before treating each one.\n")
	}
	if a.ParameterStatus[model.DissolvedOxygen] != model.StatusOptimal && a.Reading.Temperature > 30 {
		sb.WriteString("\nWarm water holds less oxygen. Treat the oxygen deficit as temperature-driven.\n")
	}

	sb.WriteString("\nProvide specific, practical actions a farm operator can take today.\n")

	ctx.Prompt = sb.String()
	return ctx
}

// knownPondPatterns returns common failure patterns in intensive ponds.
func knownPondPatterns() []string {
	return []string{
		"W1: Night-time oxygen crash (algae respiration after dusk, DO lowest before dawn)",
		"W2: Overfeeding cascade (uneaten feed -> ammonia rise -> gill damage -> feeding drops)",
		"W3: Heat stress (water > 32°C -> lower DO saturation and higher metabolic demand)",
		"W4: Unionized ammonia toxicity (high pH shifts total ammonia toward toxic NH3)",
		"W5: Storm runoff (turbidity spike, pH drop and salinity dilution after heavy rain)",
		"W6: Algal bloom collapse (sudden turbidity change followed by DO crash)",
		"W7: Aerator failure (DO falls steadily while other parameters are stable)",
		"W8: Biofilter startup (ammonia high for weeks in newly stocked systems)",
		"W9: Acid rain or low alkalinity (pH swings over 0.5 within a day)",
		"W10: Salinity drift in brackish culture (evaporation raises, rainfall lowers)",
	}
}
