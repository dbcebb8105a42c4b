package ops

import "github.com/lava-ml/lavatensor/internal/tensor"

// DivNode is the node of output = a / b (or a / k for a scalar k).
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a = outputGrad / b
//   - d(a/b)/db = -a/b², so grad_b = (-outputGrad * a / b) / b
//
// b never holds a zero: the forward division would have failed.
type DivNode[T tensor.Numeric] struct {
	left, right Node[T]
	a, b        *tensor.Array[T] // private copies
}

// NewDivNode creates the node for a / b. The operands are copied.
func NewDivNode[T tensor.Numeric](left, right Node[T], a, b *tensor.Array[T]) *DivNode[T] {
	return &DivNode[T]{
		left:  left,
		right: right,
		a:     a.Contiguous(),
		b:     b.Contiguous(),
	}
}

// NewDivScalarNode creates the node for a / k.
func NewDivScalarNode[T tensor.Numeric](left Node[T], out tensor.Shape, k T) (*DivNode[T], error) {
	b, err := tensor.Full(out, k)
	if err != nil {
		return nil, err
	}
	return &DivNode[T]{left: left, b: b}, nil
}

// Backward applies the quotient rule. Both operand gradients are computed
// before either is forwarded, so a failure leaves every leaf untouched.
func (n *DivNode[T]) Backward(grad *tensor.Array[T]) error {
	if err := checkGrad(n.Name(), grad, n.b.Shape()); err != nil {
		return err
	}

	var gradA, gradB *tensor.Array[T]
	var err error
	if n.left != nil {
		if gradA, err = grad.Div(n.b); err != nil {
			return err
		}
	}
	if n.right != nil {
		// (-grad * a / b) / b; b*b may underflow or wrap to zero.
		num, err := grad.Neg().Mul(n.a)
		if err != nil {
			return err
		}
		if num, err = num.Div(n.b); err != nil {
			return err
		}
		if gradB, err = num.Div(n.b); err != nil {
			return err
		}
	}

	if gradA != nil {
		if err := n.left.Backward(gradA); err != nil {
			return err
		}
	}
	if gradB != nil {
		return n.right.Backward(gradB)
	}
	return nil
}

// BackwardRoot seeds ones shaped like the quotient.
func (n *DivNode[T]) BackwardRoot() error {
	return seed[T](n, n.b.Shape())
}

// Next returns [left, right].
func (n *DivNode[T]) Next() []Node[T] {
	return []Node[T]{n.left, n.right}
}

// Name returns "DivBackward".
func (n *DivNode[T]) Name() string {
	return "DivBackward"
}
