// Package model defines the water-quality data types and the scoring engine
// that turns a Reading into a health score, disease risk, per-parameter
// status and remediation suggestions.
//
// Everything in this package is a pure function of its inputs. The only
// source of nondeterminism is the NoiseSource passed to ComputeDiseaseRisk.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidReading is returned by Reading.Validate for out-of-domain input.
var ErrInvalidReading = errors.New("invalid reading")

// ErrUnknownParameter is returned by ParseParameter for unrecognized names.
var ErrUnknownParameter = errors.New("unknown parameter")

// Parameter names one water-quality measurement.
type Parameter string

const (
	Temperature     Parameter = "temperature"
	PH              Parameter = "ph"
	DissolvedOxygen Parameter = "dissolved_oxygen"
	Turbidity       Parameter = "turbidity"
	Salinity        Parameter = "salinity"
	Ammonia         Parameter = "ammonia"
)

// Parameters returns all parameters in display order.
func Parameters() []Parameter {
	return []Parameter{Temperature, PH, DissolvedOxygen, Turbidity, Salinity, Ammonia}
}

// ParseParameter resolves a parameter name, accepting the short forms used
// by the dashboard ("temp", "do", "turb", ...).
func ParseParameter(s string) (Parameter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "temperature", "temp":
		return Temperature, nil
	case "ph":
		return PH, nil
	case "dissolved_oxygen", "dissolvedoxygen", "do", "oxygen":
		return DissolvedOxygen, nil
	case "turbidity", "turb":
		return Turbidity, nil
	case "salinity", "sal":
		return Salinity, nil
	case "ammonia", "nh3":
		return Ammonia, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownParameter, s)
}

// Title returns the human-readable parameter name.
func (p Parameter) Title() string {
	switch p {
	case Temperature:
		return "Temperature"
	case PH:
		return "pH"
	case DissolvedOxygen:
		return "Dissolved Oxygen"
	case Turbidity:
		return "Turbidity"
	case Salinity:
		return "Salinity"
	case Ammonia:
		return "Ammonia"
	}
	return string(p)
}

// Unit returns the measurement unit, empty for pH.
func (p Parameter) Unit() string {
	switch p {
	case Temperature:
		return "°C"
	case DissolvedOxygen:
		return "mg/L"
	case Turbidity:
		return "NTU"
	case Salinity:
		return "ppt"
	case Ammonia:
		return "ppm"
	}
	return ""
}

// Status is the coarse classification of a single parameter value.
type Status string

const (
	StatusOptimal  Status = "optimal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// rank orders statuses from best to worst.
func (s Status) rank() int {
	switch s {
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	}
	return 0
}

// Worse reports whether s is a worse status than other.
func (s Status) Worse(other Status) bool {
	return s.rank() > other.rank()
}

// --- Reading ---

// Reading is one sample of the water-quality parameters.
type Reading struct {
	ID              string    `json:"id,omitempty"`
	Timestamp       time.Time `json:"timestamp,omitempty"`
	Temperature     float64   `json:"temperature"`      // °C
	PH              float64   `json:"ph"`               // unitless
	DissolvedOxygen float64   `json:"dissolved_oxygen"` // mg/L
	Turbidity       float64   `json:"turbidity"`        // NTU
	Salinity        float64   `json:"salinity"`         // ppt
	Ammonia         float64   `json:"ammonia"`          // ppm
}

// Value returns the reading's value for p.
func (r Reading) Value(p Parameter) float64 {
	switch p {
	case Temperature:
		return r.Temperature
	case PH:
		return r.PH
	case DissolvedOxygen:
		return r.DissolvedOxygen
	case Turbidity:
		return r.Turbidity
	case Salinity:
		return r.Salinity
	case Ammonia:
		return r.Ammonia
	}
	return 0
}

// With returns a copy of r with p set to v.
func (r Reading) With(p Parameter, v float64) Reading {
	switch p {
	case Temperature:
		r.Temperature = v
	case PH:
		r.PH = v
	case DissolvedOxygen:
		r.DissolvedOxygen = v
	case Turbidity:
		r.Turbidity = v
	case Salinity:
		r.Salinity = v
	case Ammonia:
		r.Ammonia = v
	}
	return r
}

// Validate rejects readings that cannot come from a working sensor.
// Scoring functions do not call it; callers validate at the boundary so
// upstream faults are surfaced instead of clamped away.
func (r Reading) Validate() error {
	for _, p := range Parameters() {
		v := r.Value(p)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidReading, p)
		}
	}
	if r.PH < 0 || r.PH > 14 {
		return fmt.Errorf("%w: ph %.2f outside [0,14]", ErrInvalidReading, r.PH)
	}
	for _, p := range []Parameter{DissolvedOxygen, Turbidity, Salinity, Ammonia} {
		if v := r.Value(p); v < 0 {
			return fmt.Errorf("%w: %s %.3f is negative", ErrInvalidReading, p, v)
		}
	}
	return nil
}

// --- Results ---

// ScoreResult is derived from a Reading and never persisted.
type ScoreResult struct {
	HealthScore     int                  `json:"health_score"`
	DiseaseRisk     int                  `json:"disease_risk"`
	ParameterStatus map[Parameter]Status `json:"parameter_status"`
	Suggestions     map[Parameter]string `json:"suggestions,omitempty"`
}

// RiskStatus is the overall classification shown by the alerts panel.
type RiskStatus string

const (
	RiskOptimal RiskStatus = "OPTIMAL"
	RiskWarning RiskStatus = "WARNING"
	RiskRisk    RiskStatus = "RISK"
)

// Level maps the risk status to 0 (optimal), 1 (warning) or 2 (risk).
func (r RiskStatus) Level() int {
	switch r {
	case RiskRisk:
		return 2
	case RiskWarning:
		return 1
	}
	return 0
}

// Solution is a detailed remedy for one abnormal parameter.
type Solution struct {
	Param    string `json:"param"`
	Issue    string `json:"issue"`
	Risk     string `json:"risk"`
	Solution string `json:"solution"`
	Severity Status `json:"severity"`
}

// Assessment is the full analysis of a Reading.
type Assessment struct {
	ScoreResult
	Reading        Reading    `json:"input_values"`
	RiskStatus     RiskStatus `json:"risk_status"`
	Band           HealthBand `json:"band"`
	Triggers       []string   `json:"triggers"`
	Recommendation string     `json:"recommendation"`
	Solutions      []Solution `json:"detailed_solutions"`
	Confidence     float64    `json:"confidence"`
}
