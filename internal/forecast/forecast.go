// Package forecast projects water-quality trends from reading history.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// ErrInsufficientHistory is returned when there are too few readings to fit a trend.
var ErrInsufficientHistory = errors.New("insufficient history")

// MinHistory is the minimum number of readings needed for a forecast.
const MinHistory = 5

// SampleInterval is the assumed spacing between history readings.
const SampleInterval = 5 * time.Second

// insightWindow is how many steps ahead a threshold crossing is reported.
const insightWindow = 60

// Horizon names a forecast timeframe.
type Horizon string

const (
	Horizon5m  Horizon = "5m"
	Horizon1h  Horizon = "1h"
	Horizon24h Horizon = "24h"
)

// Steps returns the number of SampleInterval steps in the horizon.
// Unknown horizons default to 5 minutes.
func (h Horizon) Steps() int {
	switch h {
	case Horizon1h:
		return 720
	case Horizon24h:
		return 17280
	}
	return 60
}

// Forecast is a trend projection.
type Forecast struct {
	StartTime   time.Time                     `json:"start_time"`
	Projections map[model.Parameter][]float64 `json:"projections"`
	Insights    []string                      `json:"insights"`
}

// Forecaster projects future readings from history.
type Forecaster interface {
	Forecast(ctx context.Context, history []model.Reading, horizon Horizon) (*Forecast, error)
}

// projected lists the parameters the linear forecaster projects.
var projected = []model.Parameter{model.PH, model.Temperature, model.DissolvedOxygen, model.Turbidity}

// LinearForecaster fits a least-squares line per parameter over the sample
// index and extrapolates it.
type LinearForecaster struct {
	// Now supplies the start time when the last reading has no timestamp.
	Now func() time.Time
}

// NewLinearForecaster returns a LinearForecaster using the wall clock.
func NewLinearForecaster() *LinearForecaster {
	return &LinearForecaster{Now: time.Now}
}

// Forecast implements Forecaster.
func (f *LinearForecaster) Forecast(ctx context.Context, history []model.Reading, horizon Horizon) (*Forecast, error) {
	if len(history) < MinHistory {
		return nil, fmt.Errorf("%w: have %d readings, need %d", ErrInsufficientHistory, len(history), MinHistory)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(history)
	steps := horizon.Steps()
	out := &Forecast{
		StartTime:   f.startTime(history[n-1]),
		Projections: make(map[model.Parameter][]float64, len(projected)),
		Insights:    []string{},
	}

	ys := make([]float64, n)
	for _, p := range projected {
		for i, r := range history {
			ys[i] = r.Value(p)
		}
		slope, intercept := fitLine(ys)

		proj := make([]float64, steps)
		for i := range proj {
			proj[i] = slope*float64(n+i) + intercept
		}
		out.Projections[p] = proj

		if insight := thresholdInsight(p, ys[n-1], slope, intercept, n); insight != "" {
			out.Insights = append(out.Insights, insight)
		}
	}
	return out, nil
}

func (f *LinearForecaster) startTime(last model.Reading) time.Time {
	if !last.Timestamp.IsZero() {
		return last.Timestamp
	}
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// fitLine returns the least-squares slope and intercept of ys against 0..n-1.
func fitLine(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// thresholdInsight reports a trend that will cross the parameter's critical
// bound within insightWindow steps.
func thresholdInsight(p model.Parameter, current, slope, intercept float64, n int) string {
	th, ok := model.ThresholdFor(p)
	if !ok || slope == 0 {
		return ""
	}
	ratePerMin := slope * float64(time.Minute/SampleInterval)
	unit := p.Unit()

	var bound float64
	var verb, crossing string
	switch {
	case slope < 0 && !math.IsInf(th.CriticalLow, 0) && current > th.CriticalLow:
		bound, verb, crossing = th.CriticalLow, "dropping", "falling below"
	case slope > 0 && !math.IsInf(th.CriticalHigh, 0) && current < th.CriticalHigh:
		bound, verb, crossing = th.CriticalHigh, "rising", "exceeding"
	default:
		return ""
	}

	remaining := (bound-intercept)/slope - float64(n)
	if remaining <= 0 || remaining >= insightWindow {
		return ""
	}
	minutes := remaining * SampleInterval.Minutes()
	return strings.TrimSpace(fmt.Sprintf("%s is %s at %.2f %s/min. Risk of %s %g %s in %.1f minutes.",
		p.Title(), verb, math.Abs(ratePerMin), unit, crossing, bound, unit, minutes))
}
