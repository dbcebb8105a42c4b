package nn

import (
	"fmt"

	"github.com/lava-ml/lavatensor/internal/tensor"
)

// Linear implements a fully connected layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is one sample with shape [in_features] or [1, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias row with shape [1, out_features]
//   - y has shape [1, out_features]
//
// Example:
//
//	layer, err := nn.NewLinear(768, 64, nn.WeightHe, nn.BiasZeros)
//	out, err := layer.Forward(x)
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [in_features, out_features]
	bias        *Parameter // [1, out_features]
}

// NewLinear creates a Linear layer initialized with the given schemes.
func NewLinear(inFeatures, outFeatures int, weightInit WeightInit, biasInit BiasInit) (*Linear, error) {
	w, err := InitWeights(inFeatures, outFeatures, weightInit)
	if err != nil {
		return nil, fmt.Errorf("linear %dx%d weight: %w", inFeatures, outFeatures, err)
	}
	b, err := InitBias(outFeatures, biasInit)
	if err != nil {
		return nil, fmt.Errorf("linear %dx%d bias: %w", inFeatures, outFeatures, err)
	}
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", w),
		bias:        NewParameter("bias", b),
	}, nil
}

// Forward computes x @ W + b for a single sample.
func (l *Linear) Forward(input *Tensor) (*Tensor, error) {
	shape := input.Shape()
	single := (len(shape) == 1 && shape[0] == l.inFeatures) ||
		(len(shape) == 2 && shape[0] == 1 && shape[1] == l.inFeatures)
	if !single {
		return nil, fmt.Errorf("linear: expected input [%d] or [1 %d], got %v: %w",
			l.inFeatures, l.inFeatures, shape, tensor.ErrShapeMismatch)
	}

	out, err := input.MatMul(l.weight.Tensor())
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	return out.Add(l.bias.Tensor())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns the weight and bias arrays.
func (l *Linear) StateDict() StateDict {
	return StateDict{
		"weight": l.weight.Data(),
		"bias":   l.bias.Data(),
	}
}

// LoadStateDict copies weight and bias from state after checking shapes.
func (l *Linear) LoadStateDict(state StateDict) error {
	for _, p := range l.Parameters() {
		src, ok := state[p.Name()]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		dst := p.Data()
		if !src.Shape().Equal(dst.Shape()) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v: %w",
				p.Name(), dst.Shape(), src.Shape(), tensor.ErrShapeMismatch)
		}
		copy(dst.Data(), src.Values())
	}
	return nil
}
