package model

import (
	"strings"
	"testing"
)

// TestSuggestEmptyWhenOptimal checks every optimal value yields no suggestion
// and every non-optimal one yields some text.
func TestSuggestEmptyWhenOptimal(t *testing.T) {
	values := map[Parameter][]float64{
		Temperature:     {10, 19.9, 20, 26, 28, 30, 34, 34.1, 40},
		PH:              {5, 6.5, 6.9, 7.0, 7.5, 8.0, 8.1, 8.6, 10},
		DissolvedOxygen: {2, 4.9, 5.5, 6, 8},
		Turbidity:       {0, 10, 15, 15.1, 26},
		Salinity:        {0, 9.9, 10, 15, 20, 20.1},
		Ammonia:         {0, 0.02, 0.021, 0.06},
	}

	for p, vs := range values {
		for _, v := range vs {
			s := Suggest(p, v)
			optimal := Classify(p, v) == StatusOptimal
			if optimal && s != "" {
				t.Errorf("Suggest(%s, %v) = %q, want empty for optimal value", p, v, s)
			}
			if !optimal && s == "" {
				t.Errorf("Suggest(%s, %v) empty for %s value", p, v, Classify(p, v))
			}
		}
	}
}

func TestSuggestText(t *testing.T) {
	tests := []struct {
		param    Parameter
		value    float64
		contains string
	}{
		{DissolvedOxygen, 4.5, "Increase Dissolved Oxygen by 1.5 mg/L"},
		{PH, 6.0, "Raise pH by 1.0 to reach 7.0"},
		{PH, 8.6, "Lower pH by 0.6 to reach 8.0"},
		{Turbidity, 30, "Reduce Turbidity by 20.0 NTU"},
		{Temperature, 18, "Increase Temperature by 8.0°C"},
		{Temperature, 36, "Decrease Temperature by 6.0°C"},
		{Salinity, 8, "Raise Salinity by 2.0 ppt"},
		{Salinity, 23, "Lower Salinity by 3.0 ppt"},
		{Ammonia, 0.07, "Reduce Ammonia by 0.050 ppm"},
	}
	for _, tc := range tests {
		got := Suggest(tc.param, tc.value)
		if !strings.Contains(got, tc.contains) {
			t.Errorf("Suggest(%s, %v) = %q, want it to contain %q", tc.param, tc.value, got, tc.contains)
		}
	}
}

func TestSuggestAll(t *testing.T) {
	r := Reading{Temperature: 28, PH: 8.6, DissolvedOxygen: 7, Turbidity: 5, Salinity: 15, Ammonia: 0.03}
	got := SuggestAll(r)
	if len(got) != 2 {
		t.Fatalf("SuggestAll() returned %d suggestions, want 2: %v", len(got), got)
	}
	if _, ok := got[PH]; !ok {
		t.Error("missing pH suggestion")
	}
	if _, ok := got[Ammonia]; !ok {
		t.Error("missing ammonia suggestion")
	}
}

func TestDetailedSolutions(t *testing.T) {
	r := Reading{Temperature: 36, PH: 6.0, DissolvedOxygen: 4, Turbidity: 5, Salinity: 15, Ammonia: 0.03}
	sols := DetailedSolutions(r)

	want := map[string]Status{
		"Dissolved Oxygen": StatusCritical,
		"Ammonia":          StatusWarning,
		"pH":               StatusCritical,
		"Temperature":      StatusCritical,
	}
	if len(sols) != len(want) {
		t.Fatalf("got %d solutions, want %d: %+v", len(sols), len(want), sols)
	}
	for _, s := range sols {
		sev, ok := want[s.Param]
		if !ok {
			t.Errorf("unexpected solution for %q", s.Param)
			continue
		}
		if s.Severity != sev {
			t.Errorf("%s severity = %q, want %q", s.Param, s.Severity, sev)
		}
		if s.Issue == "" || s.Risk == "" || s.Solution == "" {
			t.Errorf("%s solution has empty fields: %+v", s.Param, s)
		}
	}
	// Most urgent first: oxygen leads.
	if sols[0].Param != "Dissolved Oxygen" {
		t.Errorf("first solution = %q, want Dissolved Oxygen", sols[0].Param)
	}
}
