// Package nn implements the neural network modules of LavaTensor.
//
// This package provides building blocks for constructing networks:
//   - Module interface: base interface for all components
//   - Parameter: trainable tensor with gradient tracking
//   - Linear: fully connected layer
//   - Activations: ReLU, Softmax
//   - Loss: CrossEntropyLoss
//   - Sequential: container for stacking layers
//
// Modules work on float64 tensors and process one sample at a time.
package nn

import (
	"github.com/lava-ml/lavatensor/internal/autodiff"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

// Tensor is the differentiable tensor type used by every module.
type Tensor = autodiff.Tensor[float64]

// StateDict maps parameter names to their data arrays.
type StateDict map[string]*tensor.Array[float64]

// Module is the base interface for all network components.
//
// Modules compose into larger networks:
//
//	net := nn.NewSequential(
//	    linear1,
//	    nn.NewReLU(),
//	    linear2,
//	)
type Module interface {
	// Forward computes the module output for a single input sample.
	Forward(input *Tensor) (*Tensor, error)

	// Parameters returns the trainable parameters, or an empty slice for
	// stateless modules such as activations.
	Parameters() []*Parameter

	// StateDict returns the parameter arrays keyed by name.
	StateDict() StateDict

	// LoadStateDict copies matching arrays into the parameters.
	LoadStateDict(state StateDict) error
}
