package optim

import (
	"fmt"
	"math"

	"github.com/lava-ml/lavatensor/internal/nn"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

// SGD implements stochastic gradient descent with gradient clipping and
// optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * clip(gradient)
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + clip(gradient)
//	param = param - lr * velocity
//
// clip bounds every gradient element to [-ClipValue, ClipValue]. A parameter
// whose gradient holds a NaN or an infinity is left untouched for that step.
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	clip       float64
	velocities map[*nn.Parameter]*tensor.Array[float64]
	skipped    int
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR        float64 // Learning rate (default: 0.01)
	Momentum  float64 // Momentum factor (default: 0, range: [0, 1))
	ClipValue float64 // Gradient clip bound (default: 1)
}

// NewSGD creates an SGD optimizer over params.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.ClipValue == 0 {
		config.ClipValue = 1
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		clip:       config.ClipValue,
		velocities: make(map[*nn.Parameter]*tensor.Array[float64]),
	}
}

// Step performs one optimization step.
func (s *SGD) Step() error {
	for _, param := range s.params {
		grad := param.Grad()
		if grad == nil {
			continue
		}
		g := grad.Values()
		if !finite(g) {
			s.skipped++
			continue
		}
		for i, v := range g {
			g[i] = math.Max(-s.clip, math.Min(s.clip, v))
		}

		update := g
		if s.momentum != 0 {
			velocity, err := s.velocity(param)
			if err != nil {
				return err
			}
			vel := velocity.Data()
			for i := range vel {
				vel[i] = s.momentum*vel[i] + g[i]
			}
			update = vel
		}

		data := param.Data()
		if !data.IsContiguous() {
			return fmt.Errorf("parameter %s: non-contiguous data", param.Name())
		}
		values := data.Data()
		for i := range values {
			values[i] -= s.lr * update[i]
		}
	}
	return nil
}

// velocity returns the momentum buffer of param, creating it on first use.
func (s *SGD) velocity(param *nn.Parameter) (*tensor.Array[float64], error) {
	if v, ok := s.velocities[param]; ok {
		return v, nil
	}
	v, err := tensor.Zeros[float64](param.Data().Shape())
	if err != nil {
		return nil, err
	}
	s.velocities[param] = v
	return v, nil
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// LR returns the current learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Skipped returns how many parameter updates were dropped because of
// non-finite gradients.
func (s *SGD) Skipped() int {
	return s.skipped
}

// StateDict returns the momentum buffers keyed as "velocity.<param index>".
// It is empty without momentum.
func (s *SGD) StateDict() nn.StateDict {
	state := make(nn.StateDict)
	if s.momentum == 0 {
		return state
	}
	for i, param := range s.params {
		if v, ok := s.velocities[param]; ok {
			state[fmt.Sprintf("velocity.%d", i)] = v
		}
	}
	return state
}

// LoadStateDict restores momentum buffers after checking their shapes.
func (s *SGD) LoadStateDict(state nn.StateDict) error {
	if s.momentum == 0 {
		return nil
	}
	s.velocities = make(map[*nn.Parameter]*tensor.Array[float64])
	for i, param := range s.params {
		v, ok := state[fmt.Sprintf("velocity.%d", i)]
		if !ok {
			continue
		}
		if !v.Shape().Equal(param.Data().Shape()) {
			return fmt.Errorf("velocity shape mismatch for parameter %d: expected %v, got %v",
				i, param.Data().Shape(), v.Shape())
		}
		s.velocities[param] = v.Contiguous()
	}
	return nil
}
