package ops

import "github.com/lava-ml/lavatensor/internal/tensor"

// SumNode is the node of output = Σx, a single-element reduction.
//
// Backward pass:
//   - d(Σx)/dx = 1, so grad_x = outputGrad broadcast over the input shape
type SumNode[T tensor.Numeric] struct {
	input Node[T]
	shape tensor.Shape
}

// NewSumNode creates the node for a reduction of an input with the given shape.
func NewSumNode[T tensor.Numeric](input Node[T], shape tensor.Shape) *SumNode[T] {
	return &SumNode[T]{input: input, shape: shape.Clone()}
}

// Backward broadcasts the single-element gradient back to the input shape.
func (n *SumNode[T]) Backward(grad *tensor.Array[T]) error {
	g, err := scalarGrad(n.Name(), grad)
	if err != nil {
		return err
	}
	if n.input == nil {
		return nil
	}
	gradX, err := tensor.Full(n.shape, g)
	if err != nil {
		return err
	}
	return n.input.Backward(gradX)
}

// BackwardRoot seeds a unit gradient.
func (n *SumNode[T]) BackwardRoot() error {
	return seed[T](n, tensor.Shape{1})
}

// Next returns [input].
func (n *SumNode[T]) Next() []Node[T] {
	return []Node[T]{n.input}
}

// Name returns "SumBackward".
func (n *SumNode[T]) Name() string {
	return "SumBackward"
}
