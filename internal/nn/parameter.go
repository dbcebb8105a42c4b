package nn

import (
	"github.com/lava-ml/lavatensor/internal/autodiff"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

// Parameter is a named trainable tensor.
//
// Its tensor always tracks gradients, so it is a graph leaf that
// accumulates every backward pass until ZeroGrad is called.
type Parameter struct {
	name   string
	tensor *Tensor
}

// NewParameter wraps data in a gradient-tracking tensor.
func NewParameter(name string, data *tensor.Array[float64]) *Parameter {
	return &Parameter{
		name:   name,
		tensor: autodiff.FromArray(data, true),
	}
}

// Name returns the parameter name, e.g. "weight".
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *Tensor {
	return p.tensor
}

// Data returns the parameter values.
func (p *Parameter) Data() *tensor.Array[float64] {
	return p.tensor.Data()
}

// Grad returns the accumulated gradient.
func (p *Parameter) Grad() *tensor.Array[float64] {
	return p.tensor.Grad()
}

// ZeroGrad clears the accumulated gradient.
func (p *Parameter) ZeroGrad() {
	p.tensor.ZeroGrad()
}
