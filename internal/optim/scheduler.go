package optim

import (
	"fmt"
	"math"
)

// Scheduler computes the learning rate for a given step.
type Scheduler interface {
	LR(step int) float64
}

// ConstantLR always returns the same rate.
type ConstantLR float64

// LR returns the constant rate.
func (c ConstantLR) LR(int) float64 {
	return float64(c)
}

// ExponentialLR decays the rate in stairs:
//
//	lr = max(MinLR, InitialLR * DecayRate^floor(step/DecaySteps))
type ExponentialLR struct {
	InitialLR  float64
	DecayRate  float64
	DecaySteps int
	MinLR      float64
}

// LR returns the decayed rate at step.
func (e ExponentialLR) LR(step int) float64 {
	stairs := 0
	if e.DecaySteps > 0 {
		stairs = step / e.DecaySteps
	}
	return math.Max(e.MinLR, e.InitialLR*math.Pow(e.DecayRate, float64(stairs)))
}

// NewScheduler builds a scheduler by name: "none" keeps baseLR,
// "exponential" decays from initialLR.
func NewScheduler(kind string, baseLR float64, exp ExponentialLR) (Scheduler, error) {
	switch kind {
	case "", "none":
		return ConstantLR(baseLR), nil
	case "exponential":
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown lr scheduler %q", kind)
	}
}
