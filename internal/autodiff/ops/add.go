package ops

import "github.com/lava-ml/lavatensor/internal/tensor"

// AddNode is the node of output = a + b (or a + k for a scalar k).
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
//
// Each link receives its own copy of the gradient.
type AddNode[T tensor.Numeric] struct {
	left, right Node[T]
	out         tensor.Shape
}

// NewAddNode creates the node for a + b. Either link may be nil.
func NewAddNode[T tensor.Numeric](left, right Node[T], out tensor.Shape) *AddNode[T] {
	return &AddNode[T]{left: left, right: right, out: out.Clone()}
}

// NewAddScalarNode creates the node for a + k.
func NewAddScalarNode[T tensor.Numeric](left Node[T], out tensor.Shape) *AddNode[T] {
	return NewAddNode[T](left, nil, out)
}

// Backward forwards the gradient unchanged to both operands.
func (n *AddNode[T]) Backward(grad *tensor.Array[T]) error {
	if err := checkGrad(n.Name(), grad, n.out); err != nil {
		return err
	}
	if err := propagate(n.left, grad.Clone()); err != nil {
		return err
	}
	return propagate(n.right, grad.Clone())
}

// BackwardRoot seeds ones shaped like the sum.
func (n *AddNode[T]) BackwardRoot() error {
	return seed[T](n, n.out)
}

// Next returns [left, right].
func (n *AddNode[T]) Next() []Node[T] {
	return []Node[T]{n.left, n.right}
}

// Name returns "AddBackward".
func (n *AddNode[T]) Name() string {
	return "AddBackward"
}
