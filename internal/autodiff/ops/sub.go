package ops

import "github.com/lava-ml/lavatensor/internal/tensor"

// SubNode is the node of output = a - b (or a - k for a scalar k).
//
// Backward pass:
//   - d(a-b)/da = 1, so grad_a = outputGrad
//   - d(a-b)/db = -1, so grad_b = -outputGrad
type SubNode[T tensor.Numeric] struct {
	left, right Node[T]
	out         tensor.Shape
}

// NewSubNode creates the node for a - b. Either link may be nil.
func NewSubNode[T tensor.Numeric](left, right Node[T], out tensor.Shape) *SubNode[T] {
	return &SubNode[T]{left: left, right: right, out: out.Clone()}
}

// NewSubScalarNode creates the node for a - k.
func NewSubScalarNode[T tensor.Numeric](left Node[T], out tensor.Shape) *SubNode[T] {
	return NewSubNode[T](left, nil, out)
}

// Backward forwards grad to the left operand and -grad to the right.
func (n *SubNode[T]) Backward(grad *tensor.Array[T]) error {
	if err := checkGrad(n.Name(), grad, n.out); err != nil {
		return err
	}
	if err := propagate(n.left, grad.Clone()); err != nil {
		return err
	}
	if n.right == nil {
		return nil
	}
	return n.right.Backward(grad.Neg())
}

// BackwardRoot seeds ones shaped like the difference.
func (n *SubNode[T]) BackwardRoot() error {
	return seed[T](n, n.out)
}

// Next returns [left, right].
func (n *SubNode[T]) Next() []Node[T] {
	return []Node[T]{n.left, n.right}
}

// Name returns "SubBackward".
func (n *SubNode[T]) Name() string {
	return "SubBackward"
}
