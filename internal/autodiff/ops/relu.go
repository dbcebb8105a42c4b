package ops

import "github.com/lava-ml/lavatensor/internal/tensor"

// ReLUNode is the node of output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
//
// The node stores the 0/1 mask of the input instead of the input itself.
type ReLUNode[T tensor.Numeric] struct {
	input Node[T]
	mask  *tensor.Array[T]
}

// NewReLUNode creates the node for ReLU(x).
func NewReLUNode[T tensor.Numeric](input Node[T], x *tensor.Array[T]) *ReLUNode[T] {
	return &ReLUNode[T]{input: input, mask: ReLUMask(x)}
}

// ReLUMask returns an array holding 1 where x > 0 and 0 elsewhere.
func ReLUMask[T tensor.Numeric](x *tensor.Array[T]) *tensor.Array[T] {
	return x.Map(func(v T) T {
		if v > 0 {
			return 1
		}
		return 0
	})
}

// Backward masks the incoming gradient.
func (n *ReLUNode[T]) Backward(grad *tensor.Array[T]) error {
	if err := checkGrad(n.Name(), grad, n.mask.Shape()); err != nil {
		return err
	}
	if n.input == nil {
		return nil
	}
	gradX, err := grad.Mul(n.mask)
	if err != nil {
		return err
	}
	return n.input.Backward(gradX)
}

// BackwardRoot seeds ones shaped like the activation.
func (n *ReLUNode[T]) BackwardRoot() error {
	return seed[T](n, n.mask.Shape())
}

// Next returns [input].
func (n *ReLUNode[T]) Next() []Node[T] {
	return []Node[T]{n.input}
}

// Name returns "ReLUBackward".
func (n *ReLUNode[T]) Name() string {
	return "ReLUBackward"
}
