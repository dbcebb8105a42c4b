package ops

import "github.com/lava-ml/lavatensor/internal/tensor"

// AccumulateNode is the leaf node of a gradient-tracking tensor.
//
// Backward adds the incoming gradient to the sink's gradient buffer and
// stops; it has no operand links.
type AccumulateNode[T tensor.Numeric] struct {
	sink  GradSink[T]
	shape tensor.Shape
}

// NewAccumulateNode creates a leaf node that feeds sink, whose data has the given shape.
func NewAccumulateNode[T tensor.Numeric](sink GradSink[T], shape tensor.Shape) *AccumulateNode[T] {
	return &AccumulateNode[T]{sink: sink, shape: shape.Clone()}
}

// Backward accumulates grad into the sink.
func (n *AccumulateNode[T]) Backward(grad *tensor.Array[T]) error {
	if err := checkGrad(n.Name(), grad, n.shape); err != nil {
		return err
	}
	return n.sink.AccumulateGrad(grad)
}

// BackwardRoot adds one to every gradient element.
func (n *AccumulateNode[T]) BackwardRoot() error {
	return seed[T](n, n.shape)
}

// Next returns no links.
func (n *AccumulateNode[T]) Next() []Node[T] {
	return nil
}

// Name returns "AccumulateGrad".
func (n *AccumulateNode[T]) Name() string {
	return "AccumulateGrad"
}
