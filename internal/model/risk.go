package model

import (
	"math/rand"
	"sync"
	"time"
)

// MaxRiskNoise is the upper bound of the random perturbation added to the
// disease risk.
const MaxRiskNoise = 5.0

// NoRiskAbove is the health score above which disease risk is reported as 0.
const NoRiskAbove = 90

// NoiseSource supplies the random perturbation for disease risk.
// *math/rand.Rand satisfies it.
type NoiseSource interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// FixedNoise is a NoiseSource that always returns the same fraction.
type FixedNoise float64

func (f FixedNoise) Float64() float64 { return float64(f) }

// LockedNoise is a NoiseSource safe for concurrent use by HTTP handlers.
type LockedNoise struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedNoise seeds a LockedNoise. A zero seed uses the current time.
func NewLockedNoise(seed int64) *LockedNoise {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LockedNoise{rng: rand.New(rand.NewSource(seed))}
}

func (l *LockedNoise) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// ComputeDiseaseRisk estimates a 0-100 disease risk from the health score.
// Healthy water (score > 90) carries no risk. Otherwise risk is the inverse
// of the score plus up to MaxRiskNoise of noise from src. A nil src adds no
// noise.
func ComputeDiseaseRisk(r Reading, src NoiseSource) int {
	return diseaseRiskFromScore(ComputeHealthScore(r), src)
}

func diseaseRiskFromScore(score int, src NoiseSource) int {
	if score > NoRiskAbove {
		return 0
	}
	noise := 0.0
	if src != nil {
		f := src.Float64()
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		noise = f * MaxRiskNoise
	}
	return clampScore(float64(100-score) + noise)
}
