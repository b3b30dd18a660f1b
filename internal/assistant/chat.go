package assistant

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

const chatSystemPrompt = "You are AquaGPT, an expert aquaculture assistant. " +
	"You are helpful, concise, and knowledgeable about fish farming (specifically Tilapia). " +
	"Analyze the user's question in the context of the provided live water parameters. " +
	"If parameters are critical (e.g., Low Oxygen, High Ammonia), PRIORITIZE giving emergency advice. " +
	"Keep answers short and actionable (under 3 sentences unless asked for detail)."

// ChatResponder answers a question about the current water conditions.
type ChatResponder interface {
	Respond(ctx context.Context, message string, r model.Reading) (string, error)
}

// GeminiChat answers with a Generator, prefixing the live sensor context.
type GeminiChat struct {
	Gen Generator
}

// Respond implements ChatResponder.
func (c *GeminiChat) Respond(ctx context.Context, message string, r model.Reading) (string, error) {
	prompt := sensorContext(r) + "\nUser Question: " + message
	answer, err := c.Gen.Generate(ctx, chatSystemPrompt, genai.NewPartFromText(prompt))
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return answer, nil
}

func sensorContext(r model.Reading) string {
	var b strings.Builder
	b.WriteString("Current Water Parameters:\n")
	fmt.Fprintf(&b, "- Temperature: %.1f°C\n", r.Temperature)
	fmt.Fprintf(&b, "- pH: %.2f\n", r.PH)
	fmt.Fprintf(&b, "- Dissolved Oxygen: %.2f mg/L\n", r.DissolvedOxygen)
	fmt.Fprintf(&b, "- Turbidity: %.1f NTU\n", r.Turbidity)
	fmt.Fprintf(&b, "- Salinity: %.1f ppt\n", r.Salinity)
	fmt.Fprintf(&b, "- Ammonia: %.3f ppm\n", r.Ammonia)
	return b.String()
}

// Offline answers from the rule-based assessment without any model.
type Offline struct{}

// Respond implements ChatResponder. If the question names a parameter the
// answer focuses on it, otherwise it summarizes the assessment.
func (Offline) Respond(ctx context.Context, message string, r model.Reading) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p, ok := mentionedParameter(message, r); ok {
		return explain(p, r), nil
	}

	a := model.Assess(r, nil)
	answer := fmt.Sprintf("Water health is %d/100 (%s).", a.HealthScore, a.Band.Label)
	if len(a.Triggers) > 0 {
		answer += " Issues: " + strings.Join(a.Triggers, ", ") + "."
	}
	return answer + " " + a.Recommendation, nil
}

// englishAliases are parameter aliases that are also ordinary words. They
// only count when written in upper case ("DO", "SAL").
var englishAliases = map[string]bool{"do": true, "sal": true}

// mentionedParameter returns the parameter the message names. When several
// are named the one in the worst state wins, then the first named.
func mentionedParameter(message string, r model.Reading) (model.Parameter, bool) {
	var (
		best  model.Parameter
		worst model.Status
		found bool
	)
	for _, word := range strings.FieldsFunc(message, func(c rune) bool {
		return !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
	}) {
		if englishAliases[strings.ToLower(word)] && word != strings.ToUpper(word) {
			continue
		}
		p, err := model.ParseParameter(word)
		if err != nil {
			continue
		}
		status := model.Classify(p, r.Value(p))
		if !found || status.Worse(worst) {
			best, worst, found = p, status, true
		}
	}
	return best, found
}

func explain(p model.Parameter, r model.Reading) string {
	v := r.Value(p)
	value := fmt.Sprintf("%g", v)
	if unit := p.Unit(); unit != "" {
		value += " " + unit
	}
	answer := fmt.Sprintf("%s is %s, which is %s.", p.Title(), value, model.Classify(p, v))
	if s := model.Suggest(p, v); s != "" {
		answer += " " + s
	}
	return answer
}
