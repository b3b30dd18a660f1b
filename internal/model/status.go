package model

import (
	"fmt"
	"math"
)

// Threshold defines the status bands for one parameter.
// A value below CriticalLow or above CriticalHigh is critical; otherwise a
// value below WarningLow or above WarningHigh is a warning. Unused bounds are
// ±Inf.
type Threshold struct {
	Parameter    Parameter
	CriticalLow  float64
	CriticalHigh float64
	WarningLow   float64
	WarningHigh  float64
}

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

// DefaultThresholds returns the built-in status thresholds, keyed by parameter.
func DefaultThresholds() map[Parameter]Threshold {
	return map[Parameter]Threshold{
		PH: {
			Parameter:   PH,
			CriticalLow: 6.5, CriticalHigh: 8.5,
			WarningLow: 7.0, WarningHigh: 8.0,
		},
		Temperature: {
			Parameter:   Temperature,
			CriticalLow: 20, CriticalHigh: 34,
			WarningLow: negInf, WarningHigh: posInf,
		},
		DissolvedOxygen: {
			Parameter:   DissolvedOxygen,
			CriticalLow: 5.0, CriticalHigh: posInf,
			WarningLow: 6.0, WarningHigh: posInf,
		},
		Turbidity: {
			Parameter:   Turbidity,
			CriticalLow: negInf, CriticalHigh: 25,
			WarningLow: negInf, WarningHigh: 15,
		},
		Salinity: {
			Parameter:   Salinity,
			CriticalLow: negInf, CriticalHigh: posInf,
			WarningLow: 10, WarningHigh: 20,
		},
		Ammonia: {
			Parameter:   Ammonia,
			CriticalLow: negInf, CriticalHigh: 0.05,
			WarningLow: negInf, WarningHigh: 0.02,
		},
	}
}

var thresholds = DefaultThresholds()

// ThresholdFor returns the threshold for p.
func ThresholdFor(p Parameter) (Threshold, bool) {
	t, ok := thresholds[p]
	return t, ok
}

// Evaluate classifies v against the threshold. Critical is checked first.
func (t Threshold) Evaluate(v float64) Status {
	switch {
	case v < t.CriticalLow || v > t.CriticalHigh:
		return StatusCritical
	case v < t.WarningLow || v > t.WarningHigh:
		return StatusWarning
	}
	return StatusOptimal
}

// Describe renders the non-infinite bounds, e.g. "critical <6.5 or >8.5; warning <7 or >8".
func (t Threshold) Describe() string {
	crit := describeBounds(t.CriticalLow, t.CriticalHigh)
	warn := describeBounds(t.WarningLow, t.WarningHigh)
	switch {
	case crit != "" && warn != "":
		return fmt.Sprintf("critical %s; warning %s", crit, warn)
	case crit != "":
		return "critical " + crit
	case warn != "":
		return "warning " + warn
	}
	return "always optimal"
}

func describeBounds(low, high float64) string {
	switch {
	case !math.IsInf(low, 0) && !math.IsInf(high, 0):
		return fmt.Sprintf("<%g or >%g", low, high)
	case !math.IsInf(low, 0):
		return fmt.Sprintf("<%g", low)
	case !math.IsInf(high, 0):
		return fmt.Sprintf(">%g", high)
	}
	return ""
}

// Classify returns the status of a single parameter value. It depends only
// on p and v. Unknown parameters are reported optimal.
func Classify(p Parameter, v float64) Status {
	t, ok := thresholds[p]
	if !ok {
		return StatusOptimal
	}
	return t.Evaluate(v)
}

// ClassifyReading classifies every parameter of r.
func ClassifyReading(r Reading) map[Parameter]Status {
	statuses := make(map[Parameter]Status, len(thresholds))
	for _, p := range Parameters() {
		statuses[p] = Classify(p, r.Value(p))
	}
	return statuses
}

// OverallRisk maps the worst parameter status to a RiskStatus.
func OverallRisk(statuses map[Parameter]Status) RiskStatus {
	worst := StatusOptimal
	for _, s := range statuses {
		if s.Worse(worst) {
			worst = s
		}
	}
	switch worst {
	case StatusCritical:
		return RiskRisk
	case StatusWarning:
		return RiskWarning
	}
	return RiskOptimal
}
