package ops

import "github.com/lava-ml/lavatensor/internal/tensor"

// MulNode is the node of output = a * b (or a * k for a scalar k).
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = outputGrad * b
//   - d(a*b)/db = a, so grad_b = outputGrad * a
//
// For the scalar form b is k broadcast to the output shape and there is no
// right link.
type MulNode[T tensor.Numeric] struct {
	left, right Node[T]
	a, b        *tensor.Array[T] // private copies
}

// NewMulNode creates the node for a * b. The operands are copied.
func NewMulNode[T tensor.Numeric](left, right Node[T], a, b *tensor.Array[T]) *MulNode[T] {
	return &MulNode[T]{
		left:  left,
		right: right,
		a:     a.Contiguous(),
		b:     b.Contiguous(),
	}
}

// NewMulScalarNode creates the node for a * k.
func NewMulScalarNode[T tensor.Numeric](left Node[T], out tensor.Shape, k T) (*MulNode[T], error) {
	b, err := tensor.Full(out, k)
	if err != nil {
		return nil, err
	}
	return &MulNode[T]{left: left, b: b}, nil
}

// Backward applies the product rule.
func (n *MulNode[T]) Backward(grad *tensor.Array[T]) error {
	if err := checkGrad(n.Name(), grad, n.b.Shape()); err != nil {
		return err
	}
	if n.left != nil {
		gradA, err := grad.Mul(n.b)
		if err != nil {
			return err
		}
		if err := n.left.Backward(gradA); err != nil {
			return err
		}
	}
	if n.right != nil {
		gradB, err := grad.Mul(n.a)
		if err != nil {
			return err
		}
		return n.right.Backward(gradB)
	}
	return nil
}

// BackwardRoot seeds ones shaped like the product.
func (n *MulNode[T]) BackwardRoot() error {
	return seed[T](n, n.b.Shape())
}

// Next returns [left, right].
func (n *MulNode[T]) Next() []Node[T] {
	return []Node[T]{n.left, n.right}
}

// Name returns "MulBackward".
func (n *MulNode[T]) Name() string {
	return "MulBackward"
}
