package source

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// Step bounds the walk of one parameter.
type Step struct {
	Min, Max float64
	// Variance is the full width of the uniform step, centred on zero.
	Variance float64
}

// DefaultSteps are the walk bounds of the live dashboard.
var DefaultSteps = map[model.Parameter]Step{
	model.PH:              {Min: 6, Max: 9, Variance: 0.1},
	model.Temperature:     {Min: 24, Max: 32, Variance: 0.3},
	model.DissolvedOxygen: {Min: 5, Max: 8, Variance: 0.2},
	model.Turbidity:       {Min: 8, Max: 20, Variance: 0.5},
	model.Salinity:        {Min: 12, Max: 18, Variance: 0.3},
	model.Ammonia:         {Min: 0, Max: 0.05, Variance: 0.002},
}

// DefaultStart is the first reading of the walk.
var DefaultStart = model.Reading{
	PH:              7.2,
	Temperature:     28.5,
	DissolvedOxygen: 6.8,
	Turbidity:       12.3,
	Salinity:        15.2,
	Ammonia:         0.015,
}

// RandomWalkSource perturbs every parameter by a bounded random step on each
// call. It is safe for concurrent use.
type RandomWalkSource struct {
	Now func() time.Time

	mu      sync.Mutex
	rng     *rand.Rand
	steps   map[model.Parameter]Step
	current model.Reading
}

// NewRandomWalk creates a walk starting at DefaultStart. A nil rng is seeded
// from the clock.
func NewRandomWalk(rng *rand.Rand) *RandomWalkSource {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomWalkSource{rng: rng, steps: DefaultSteps, current: DefaultStart}
}

// Name implements Source.
func (w *RandomWalkSource) Name() string { return "random-walk" }

// Next implements Source.
func (w *RandomWalkSource) Next(ctx context.Context) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.current
	for _, p := range model.Parameters() {
		s, ok := w.steps[p]
		if !ok {
			continue
		}
		v := w.current.Value(p) + (w.rng.Float64()-0.5)*s.Variance
		next = next.With(p, math.Max(s.Min, math.Min(s.Max, v)))
	}
	w.current = next
	next.Timestamp = clock(w.Now)
	return next, nil
}
