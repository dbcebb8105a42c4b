package ops

import (
	"fmt"

	"github.com/lava-ml/lavatensor/internal/tensor"
)

// CrossEntropyNode is the node of the fused softmax + cross-entropy loss
// of one sample:
//
//	Loss = -log(softmax(logits)[target])
//
// Backward:
//
//	∂L/∂logits = (softmax(logits) - onehot(target)) * outputGrad
//
// The softmax probabilities are computed once in the forward pass and kept
// by the node; the one-hot subtraction is done on a fresh copy for every
// backward call.
type CrossEntropyNode[T tensor.Numeric] struct {
	input  Node[T]
	probs  *tensor.Array[T]
	target int
}

// NewCrossEntropyNode creates the loss node from the softmax probabilities
// of the logits and the target class index (row-major position in probs).
func NewCrossEntropyNode[T tensor.Numeric](input Node[T], probs *tensor.Array[T], target int) (*CrossEntropyNode[T], error) {
	if target < 0 || target >= probs.Len() {
		return nil, fmt.Errorf("cross entropy target %d of %d classes: %w", target, probs.Len(), tensor.ErrIndexOutOfRange)
	}
	return &CrossEntropyNode[T]{input: input, probs: probs.Contiguous(), target: target}, nil
}

// Backward forwards (softmax - onehot) scaled by the scalar loss gradient.
func (n *CrossEntropyNode[T]) Backward(grad *tensor.Array[T]) error {
	g, err := scalarGrad(n.Name(), grad)
	if err != nil {
		return err
	}
	if n.input == nil {
		return nil
	}
	gradX := n.probs.Clone()
	gradX.Data()[n.target]--
	gradX.MulScalarInPlace(g)
	return n.input.Backward(gradX)
}

// BackwardRoot seeds a unit loss gradient.
func (n *CrossEntropyNode[T]) BackwardRoot() error {
	return seed[T](n, tensor.Shape{1})
}

// Next returns [input].
func (n *CrossEntropyNode[T]) Next() []Node[T] {
	return []Node[T]{n.input}
}

// Name returns "CrossEntropyBackward".
func (n *CrossEntropyNode[T]) Name() string {
	return "CrossEntropyBackward"
}
