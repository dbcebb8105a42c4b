package ops

import (
	"fmt"

	"github.com/lava-ml/lavatensor/internal/tensor"
)

// SoftmaxNode is the node of a standalone softmax.
//
// Its backward pass is not implemented and fails with ErrNotImplemented.
// Differentiate through CrossEntropyNode, which carries the combined
// softmax and loss derivative, instead.
type SoftmaxNode[T tensor.Numeric] struct {
	input Node[T]
}

// NewSoftmaxNode creates the node for softmax(x).
func NewSoftmaxNode[T tensor.Numeric](input Node[T]) *SoftmaxNode[T] {
	return &SoftmaxNode[T]{input: input}
}

// Backward always fails.
func (n *SoftmaxNode[T]) Backward(*tensor.Array[T]) error {
	return fmt.Errorf("%s: %w", n.Name(), ErrNotImplemented)
}

// BackwardRoot always fails.
func (n *SoftmaxNode[T]) BackwardRoot() error {
	return fmt.Errorf("%s: %w", n.Name(), ErrNotImplemented)
}

// Next returns [input].
func (n *SoftmaxNode[T]) Next() []Node[T] {
	return []Node[T]{n.input}
}

// Name returns "SoftmaxBackward".
func (n *SoftmaxNode[T]) Name() string {
	return "SoftmaxBackward"
}
