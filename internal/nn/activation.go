package nn

import "github.com/lava-ml/lavatensor/internal/autodiff"

// ReLU applies max(0, x) elementwise.
type ReLU struct{}

// NewReLU creates a ReLU activation.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies the rectifier.
func (r *ReLU) Forward(input *Tensor) (*Tensor, error) {
	return autodiff.ReLU(input)
}

// Parameters returns nil.
func (r *ReLU) Parameters() []*Parameter { return nil }

// StateDict returns an empty state.
func (r *ReLU) StateDict() StateDict { return StateDict{} }

// LoadStateDict accepts any state.
func (r *ReLU) LoadStateDict(StateDict) error { return nil }

// Softmax turns logits into probabilities.
//
// It is meant for inference: its output can not be differentiated, so a
// network trained with CrossEntropyLoss should end on the last Linear.
type Softmax struct{}

// NewSoftmax creates a Softmax activation.
func NewSoftmax() *Softmax {
	return &Softmax{}
}

// Forward normalizes the input.
func (s *Softmax) Forward(input *Tensor) (*Tensor, error) {
	return autodiff.Softmax(input)
}

// Parameters returns nil.
func (s *Softmax) Parameters() []*Parameter { return nil }

// StateDict returns an empty state.
func (s *Softmax) StateDict() StateDict { return StateDict{} }

// LoadStateDict accepts any state.
func (s *Softmax) LoadStateDict(StateDict) error { return nil }
