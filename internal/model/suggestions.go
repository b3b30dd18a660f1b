package model

import "fmt"

// Target values the suggestions steer toward.
const (
	targetOxygen       = 6.0
	targetPHLow        = 7.0
	targetPHHigh       = 8.0
	targetTurbidity    = 10.0
	targetTempLow      = 26.0
	targetTempHigh     = 30.0
	targetSalinityLow  = 10.0
	targetSalinityHigh = 20.0
	targetAmmonia      = 0.02
)

// Suggest returns a remediation hint for p at value v, or "" when the value
// is optimal.
func Suggest(p Parameter, v float64) string {
	if Classify(p, v) == StatusOptimal {
		return ""
	}

	switch p {
	case DissolvedOxygen:
		return fmt.Sprintf("Increase Dissolved Oxygen by %.1f mg/L by increasing aeration or checking air stones.",
			targetOxygen-v)
	case PH:
		if v < targetPHLow {
			return fmt.Sprintf("Raise pH by %.1f to reach %.1f by adding crushed coral, lime, or baking soda.",
				targetPHLow-v, targetPHLow)
		}
		return fmt.Sprintf("Lower pH by %.1f to reach %.1f by adding peat moss, driftwood, or CO2 injection.",
			v-targetPHHigh, targetPHHigh)
	case Turbidity:
		return fmt.Sprintf("Reduce Turbidity by %.1f NTU by cleaning filters, reducing feeding, or performing a partial water change.",
			v-targetTurbidity)
	case Temperature:
		if v < targetTempLow {
			return fmt.Sprintf("Increase Temperature by %.1f°C by checking heater settings or insulating the tank.",
				targetTempLow-v)
		}
		return fmt.Sprintf("Decrease Temperature by %.1f°C by using a chiller, fan, or adding cool water.",
			v-targetTempHigh)
	case Salinity:
		if v < targetSalinityLow {
			return fmt.Sprintf("Raise Salinity by %.1f ppt to reach %.0f by dosing marine salt gradually.",
				targetSalinityLow-v, targetSalinityLow)
		}
		return fmt.Sprintf("Lower Salinity by %.1f ppt to reach %.0f by exchanging water with fresh water.",
			v-targetSalinityHigh, targetSalinityHigh)
	case Ammonia:
		return fmt.Sprintf("Reduce Ammonia by %.3f ppm to reach %.2f by stopping feeding and performing a water exchange.",
			v-targetAmmonia, targetAmmonia)
	}
	return ""
}

// SuggestAll returns suggestions for every non-optimal parameter of r.
func SuggestAll(r Reading) map[Parameter]string {
	out := make(map[Parameter]string)
	for _, p := range Parameters() {
		if s := Suggest(p, r.Value(p)); s != "" {
			out[p] = s
		}
	}
	return out
}

// remedy is the short action shown in the one-line recommendation.
func remedy(p Parameter, v float64) string {
	switch p {
	case DissolvedOxygen:
		return "Increase aeration (check paddle wheels/air stones)."
	case Ammonia:
		return "Stop feeding & perform water exchange."
	case PH:
		if v < targetPHLow {
			return "Add lime/crushed coral to raise pH."
		}
		return "Add peat moss to lower pH."
	case Turbidity:
		return "Check filters & reduce feeding."
	case Temperature:
		return "Adjust heating/cooling or add shade."
	case Salinity:
		return "Adjust salinity with gradual water exchange."
	}
	return ""
}

// DetailedSolutions produces structured remedies for abnormal parameters.
func DetailedSolutions(r Reading) []Solution {
	var out []Solution
	for _, p := range []Parameter{DissolvedOxygen, Ammonia, PH, Temperature, Turbidity, Salinity} {
		v := r.Value(p)
		status := Classify(p, v)
		if status == StatusOptimal {
			continue
		}
		if s, ok := detailedSolution(p, v, status); ok {
			out = append(out, s)
		}
	}
	return out
}

func detailedSolution(p Parameter, v float64, status Status) (Solution, bool) {
	s := Solution{Param: p.Title(), Severity: status}
	switch p {
	case DissolvedOxygen:
		if status == StatusCritical {
			s.Issue = fmt.Sprintf("Critical Low Oxygen (%.1f mg/L)", v)
			s.Risk = "High risk of fish asphyxiation and mass mortality within hours."
			s.Solution = "1. Activate emergency aeration (paddle wheels/blowers). 2. Stop feeding immediately to reduce oxygen demand. 3. Exchange 20% surface water if possible."
		} else {
			s.Issue = fmt.Sprintf("Low Oxygen (%.1f mg/L)", v)
			s.Risk = "Chronic stress, reduced growth, and susceptibility to disease."
			s.Solution = "1. Increase aeration duration. 2. Check stocking density. 3. Remove sludge/organic waste from bottom."
		}
	case Ammonia:
		if status == StatusCritical {
			s.Issue = fmt.Sprintf("Toxic Ammonia Levels (%.3f ppm)", v)
			s.Risk = "Gill damage, brain dysfunction, and death (ammonia poisoning)."
			s.Solution = "1. Perform 50% water change immediately. 2. Stop feeding. 3. Add zeolite or ammonia binder. 4. Check bio-filter health."
		} else {
			s.Issue = fmt.Sprintf("Elevated Ammonia (%.3f ppm)", v)
			s.Risk = "Stress and lowered immunity."
			s.Solution = "1. Reduce feeding by 50%. 2. Add nitrifying bacteria supplement. 3. Ensure pH is not too high (toxicity increases with pH)."
		}
	case PH:
		switch {
		case v < targetPHLow:
			s.Issue = fmt.Sprintf("Acidic Water (pH %.1f)", v)
			s.Risk = "Acidosis: mucus secretion, gill damage, and gasping."
			s.Solution = "1. Apply agricultural lime (CaCO3) or crushed coral. 2. Aerate to strip CO2. 3. Avoid rapid changes (>0.5 pH/day)."
		default:
			s.Issue = fmt.Sprintf("Alkaline Water (pH %.1f)", v)
			s.Risk = "Alkalosis: skin and eye damage, and increased ammonia toxicity."
			s.Solution = "1. Add peat moss or driftwood. 2. Use alum (aluminum sulfate) carefully. 3. Check for algal blooms (photosynthesis raises pH)."
		}
	case Temperature:
		if v > targetTempHigh {
			s.Issue = fmt.Sprintf("Extreme Heat (%.1f°C)", v)
			s.Risk = "Thermal shock, low oxygen holding capacity, and bacterial outbreaks."
			s.Solution = "1. Add shade nets over the pond. 2. Exchange with cooler water from bottom/well. 3. Stop feeding (metabolism is too fast)."
		} else {
			s.Issue = fmt.Sprintf("Cold Water (%.1f°C)", v)
			s.Risk = "Hypothermia, inactivity, and fungal infections."
			s.Solution = "1. Check greenhouse/polyhouse covers. 2. Add warm water if feasible. 3. Stop feeding (digestion stops in cold)."
		}
	case Turbidity:
		s.Issue = fmt.Sprintf("High Turbidity (%.1f NTU)", v)
		s.Risk = "Clogged gills, reduced visibility for feeding, and stress."
		s.Solution = "1. Check for runoff/soil erosion entering pond. 2. Use coagulants like alum or gypsum. 3. Clean filters."
	case Salinity:
		s.Issue = fmt.Sprintf("Salinity Out of Range (%.1f ppt)", v)
		s.Risk = "Osmotic stress and reduced feed conversion."
		s.Solution = "1. Adjust gradually (<2 ppt/day). 2. Use marine salt to raise or fresh water exchange to lower. 3. Recheck after 24 hours."
	default:
		return Solution{}, false
	}
	return s, true
}
