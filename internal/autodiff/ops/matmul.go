package ops

import "github.com/lava-ml/lavatensor/internal/tensor"

// MatMulNode is the node of output = A @ B.
//
// Backward pass:
//   - d(A@B)/dA = outputGrad @ Bᵀ
//   - d(A@B)/dB = Aᵀ @ outputGrad
//
// 1-D operands are held in their promoted 2-D form ([1, n] on the left,
// [n, 1] on the right) and their gradients are reshaped back to 1-D.
type MatMulNode[T tensor.Numeric] struct {
	left, right    Node[T]
	a, b           *tensor.Array[T] // 2-D private copies
	aShape, bShape tensor.Shape
}

// NewMatMulNode creates the node for a @ b. The operands are copied.
func NewMatMulNode[T tensor.Numeric](left, right Node[T], a, b *tensor.Array[T]) (*MatMulNode[T], error) {
	a2, b2 := a.Contiguous(), b.Contiguous()
	if a.Rank() == 1 {
		if err := a2.Unsqueeze(0); err != nil {
			return nil, err
		}
	}
	if b.Rank() == 1 {
		if err := b2.Unsqueeze(1); err != nil {
			return nil, err
		}
	}
	return &MatMulNode[T]{
		left:   left,
		right:  right,
		a:      a2,
		b:      b2,
		aShape: a.Shape(),
		bShape: b.Shape(),
	}, nil
}

func (n *MatMulNode[T]) outShape() tensor.Shape {
	return tensor.Shape{n.a.Shape()[0], n.b.Shape()[1]}
}

// Backward computes grad @ Bᵀ for A and Aᵀ @ grad for B.
func (n *MatMulNode[T]) Backward(grad *tensor.Array[T]) error {
	if err := checkGrad(n.Name(), grad, n.outShape()); err != nil {
		return err
	}
	if n.left != nil {
		bT, err := n.b.Transpose()
		if err != nil {
			return err
		}
		gradA, err := grad.MatMul(bT)
		if err != nil {
			return err
		}
		if gradA, err = gradA.Reshape(n.aShape); err != nil {
			return err
		}
		if err := n.left.Backward(gradA); err != nil {
			return err
		}
	}
	if n.right != nil {
		aT, err := n.a.Transpose()
		if err != nil {
			return err
		}
		gradB, err := aT.MatMul(grad)
		if err != nil {
			return err
		}
		if gradB, err = gradB.Reshape(n.bShape); err != nil {
			return err
		}
		return n.right.Backward(gradB)
	}
	return nil
}

// BackwardRoot seeds ones shaped like the product.
func (n *MatMulNode[T]) BackwardRoot() error {
	return seed[T](n, n.outShape())
}

// Next returns [left, right].
func (n *MatMulNode[T]) Next() []Node[T] {
	return []Node[T]{n.left, n.right}
}

// Name returns "MatMulBackward".
func (n *MatMulNode[T]) Name() string {
	return "MatMulBackward"
}
