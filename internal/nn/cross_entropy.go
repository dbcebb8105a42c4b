package nn

import "github.com/lava-ml/lavatensor/internal/autodiff"

// CrossEntropyLoss computes the softmax cross-entropy of one sample.
//
//	Loss = -log(softmax(logits)[target])
//
// The probability is clamped to [1e-7, 1-1e-7]. Backward through the loss
// yields softmax(logits) - onehot(target) on the logits.
//
// Example:
//
//	criterion := nn.NewCrossEntropyLoss()
//	loss, err := criterion.Forward(logits, label)
//	err = loss.Backward()
type CrossEntropyLoss struct{}

// NewCrossEntropyLoss creates the loss function.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return &CrossEntropyLoss{}
}

// Forward returns the loss as a tensor of shape [1].
func (c *CrossEntropyLoss) Forward(logits *Tensor, target int) (*Tensor, error) {
	return autodiff.CrossEntropy(logits, target)
}
