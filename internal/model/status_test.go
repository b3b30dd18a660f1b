package model

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		param Parameter
		value float64
		want  Status
	}{
		// pH
		{PH, 8.6, StatusCritical},
		{PH, 6.4, StatusCritical},
		{PH, 8.2, StatusWarning},
		{PH, 6.9, StatusWarning},
		{PH, 7.9, StatusOptimal},
		{PH, 7.5, StatusOptimal},
		{PH, 8.5, StatusWarning}, // bounds are exclusive
		{PH, 7.0, StatusOptimal},
		// temperature has no warning band
		{Temperature, 19.9, StatusCritical},
		{Temperature, 34.1, StatusCritical},
		{Temperature, 20, StatusOptimal},
		{Temperature, 34, StatusOptimal},
		// dissolved oxygen
		{DissolvedOxygen, 4.9, StatusCritical},
		{DissolvedOxygen, 5.5, StatusWarning},
		{DissolvedOxygen, 6.0, StatusOptimal},
		{DissolvedOxygen, 15, StatusOptimal},
		// turbidity
		{Turbidity, 30, StatusCritical},
		{Turbidity, 18, StatusWarning},
		{Turbidity, 10, StatusOptimal},
		// salinity has no critical band
		{Salinity, 5, StatusWarning},
		{Salinity, 25, StatusWarning},
		{Salinity, 15, StatusOptimal},
		{Salinity, 100, StatusWarning},
		// ammonia
		{Ammonia, 0.06, StatusCritical},
		{Ammonia, 0.03, StatusWarning},
		{Ammonia, 0.02, StatusOptimal},
		{Ammonia, 0, StatusOptimal},
	}

	for _, tc := range tests {
		if got := Classify(tc.param, tc.value); got != tc.want {
			t.Errorf("Classify(%s, %v) = %q, want %q", tc.param, tc.value, got, tc.want)
		}
	}
}

// TestClassifyCriticalPrecedence verifies that values inside both the
// critical and the warning region report critical.
func TestClassifyCriticalPrecedence(t *testing.T) {
	for p, th := range DefaultThresholds() {
		for _, v := range []float64{th.CriticalLow - 0.001, th.CriticalHigh + 0.001} {
			if math.IsInf(v, 0) {
				continue
			}
			if got := Classify(p, v); got != StatusCritical {
				t.Errorf("Classify(%s, %v) = %q, want critical", p, v, got)
			}
		}
	}
}

func TestClassifyUnknownParameter(t *testing.T) {
	if got := Classify(Parameter("chlorine"), 99); got != StatusOptimal {
		t.Errorf("unknown parameter classified %q, want optimal", got)
	}
}

func TestParseParameter(t *testing.T) {
	tests := []struct {
		in   string
		want Parameter
	}{
		{"ph", PH},
		{"PH", PH},
		{"temp", Temperature},
		{"turb", Turbidity},
		{"do", DissolvedOxygen},
		{"dissolvedOxygen", DissolvedOxygen},
		{"dissolved_oxygen", DissolvedOxygen},
		{" salinity ", Salinity},
		{"nh3", Ammonia},
	}
	for _, tc := range tests {
		got, err := ParseParameter(tc.in)
		if err != nil {
			t.Errorf("ParseParameter(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseParameter(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseParameter("nitrate"); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestOverallRisk(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[Parameter]Status
		want     RiskStatus
	}{
		{"empty", map[Parameter]Status{}, RiskOptimal},
		{"all optimal", map[Parameter]Status{PH: StatusOptimal, Ammonia: StatusOptimal}, RiskOptimal},
		{"one warning", map[Parameter]Status{PH: StatusWarning, Ammonia: StatusOptimal}, RiskWarning},
		{"critical wins", map[Parameter]Status{PH: StatusWarning, Ammonia: StatusCritical}, RiskRisk},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := OverallRisk(tc.statuses); got != tc.want {
				t.Errorf("OverallRisk() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestThresholdDescribe(t *testing.T) {
	tests := []struct {
		param Parameter
		want  string
	}{
		{PH, "critical <6.5 or >8.5; warning <7 or >8"},
		{Temperature, "critical <20 or >34"},
		{Salinity, "warning <10 or >20"},
		{Ammonia, "critical >0.05; warning >0.02"},
		{DissolvedOxygen, "critical <5; warning <6"},
	}
	for _, tc := range tests {
		th, ok := ThresholdFor(tc.param)
		if !ok {
			t.Fatalf("no threshold for %s", tc.param)
		}
		if got := th.Describe(); got != tc.want {
			t.Errorf("%s Describe() = %q, want %q", tc.param, got, tc.want)
		}
	}
}
