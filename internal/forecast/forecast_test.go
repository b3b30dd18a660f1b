package forecast

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

func series(n int, f func(i int) model.Reading) []model.Reading {
	out := make([]model.Reading, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func TestForecastInsufficientHistory(t *testing.T) {
	f := NewLinearForecaster()
	_, err := f.Forecast(context.Background(), make([]model.Reading, 4), Horizon5m)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("err = %v, want ErrInsufficientHistory", err)
	}
}

func TestForecastLinearSeries(t *testing.T) {
	// Temperature rises 0.1 per step from 25.
	history := series(10, func(i int) model.Reading {
		return model.Reading{Temperature: 25 + 0.1*float64(i), PH: 7.5, DissolvedOxygen: 7, Turbidity: 10}
	})

	f := NewLinearForecaster()
	fc, err := f.Forecast(context.Background(), history, Horizon5m)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	temps := fc.Projections[model.Temperature]
	if len(temps) != 60 {
		t.Fatalf("projection length = %d, want 60", len(temps))
	}
	// Step 10 continues the line: 25 + 1.0.
	if math.Abs(temps[0]-26.0) > 1e-9 {
		t.Errorf("first projection = %v, want 26.0", temps[0])
	}
	if math.Abs(temps[59]-(25+0.1*69)) > 1e-9 {
		t.Errorf("last projection = %v, want %v", temps[59], 25+0.1*69)
	}
	// Flat series project flat.
	for _, v := range fc.Projections[model.PH] {
		if math.Abs(v-7.5) > 1e-9 {
			t.Fatalf("flat pH projected to %v", v)
		}
	}
	// 34 is reached at step 90, far beyond the insight window.
	if len(fc.Insights) != 0 {
		t.Errorf("unexpected insights: %v", fc.Insights)
	}
}

func TestForecastInsightDroppingOxygen(t *testing.T) {
	// DO falls 0.05 per step from 6.0; crosses 5.0 at step 20, 10 steps
	// after the last reading (50 s).
	history := series(10, func(i int) model.Reading {
		return model.Reading{Temperature: 28, PH: 7.5, DissolvedOxygen: 6.0 - 0.05*float64(i), Turbidity: 10}
	})

	fc, err := NewLinearForecaster().Forecast(context.Background(), history, Horizon5m)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(fc.Insights) != 1 {
		t.Fatalf("insights = %v, want 1", fc.Insights)
	}
	got := fc.Insights[0]
	for _, want := range []string{"Dissolved Oxygen is dropping at 0.60 mg/L/min", "falling below 5 mg/L", "in 0.8 minutes"} {
		if !strings.Contains(got, want) {
			t.Errorf("insight %q missing %q", got, want)
		}
	}
}

func TestForecastInsightRisingTurbidity(t *testing.T) {
	history := series(8, func(i int) model.Reading {
		return model.Reading{Temperature: 28, PH: 7.5, DissolvedOxygen: 7, Turbidity: 20 + float64(i)*0.5}
	})
	fc, err := NewLinearForecaster().Forecast(context.Background(), history, Horizon1h)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(fc.Projections[model.Turbidity]) != 720 {
		t.Errorf("1h projection length = %d", len(fc.Projections[model.Turbidity]))
	}
	if len(fc.Insights) != 1 || !strings.Contains(fc.Insights[0], "Turbidity is rising") {
		t.Errorf("insights = %v", fc.Insights)
	}
}

func TestForecastStartTime(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	history := series(5, func(i int) model.Reading { return model.Reading{PH: 7.5} })

	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &LinearForecaster{Now: func() time.Time { return fixed }}

	fc, err := f.Forecast(context.Background(), history, Horizon5m)
	if err != nil {
		t.Fatal(err)
	}
	if !fc.StartTime.Equal(fixed) {
		t.Errorf("start = %v, want clock time", fc.StartTime)
	}

	history[4].Timestamp = ts
	fc, err = f.Forecast(context.Background(), history, Horizon5m)
	if err != nil {
		t.Fatal(err)
	}
	if !fc.StartTime.Equal(ts) {
		t.Errorf("start = %v, want last reading time", fc.StartTime)
	}
}

func TestHorizonSteps(t *testing.T) {
	tests := map[Horizon]int{"5m": 60, "1h": 720, "24h": 17280, "": 60, "2w": 60}
	for h, want := range tests {
		if got := h.Steps(); got != want {
			t.Errorf("Horizon(%q).Steps() = %d, want %d", h, got, want)
		}
	}
}

func TestForecastCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLinearForecaster().Forecast(ctx, make([]model.Reading, 6), Horizon5m)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
