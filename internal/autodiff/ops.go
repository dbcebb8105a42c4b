package autodiff

import (
	"github.com/lava-ml/lavatensor/internal/autodiff/ops"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

// link returns the node gradients should flow into, or nil when t does
// not track gradients.
func (t *Tensor[T]) link() ops.Node[T] {
	if !t.requiresGrad {
		return nil
	}
	return t.node
}

// tracked wraps a forward result: untracked when no operand requires
// gradients, otherwise with the node built by mk.
func tracked[T tensor.Numeric](out *tensor.Array[T], track bool, mk func() (ops.Node[T], error)) (*Tensor[T], error) {
	if !track {
		return FromArray(out, false), nil
	}
	node, err := mk()
	if err != nil {
		return nil, err
	}
	return WithNode(out, node, true), nil
}

// Add returns t + o.
func (t *Tensor[T]) Add(o *Tensor[T]) (*Tensor[T], error) {
	out, err := t.data.Add(o.data)
	if err != nil {
		return nil, err
	}
	return tracked(out, t.requiresGrad || o.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewAddNode(t.link(), o.link(), out.Shape()), nil
	})
}

// Sub returns t - o.
func (t *Tensor[T]) Sub(o *Tensor[T]) (*Tensor[T], error) {
	out, err := t.data.Sub(o.data)
	if err != nil {
		return nil, err
	}
	return tracked(out, t.requiresGrad || o.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewSubNode(t.link(), o.link(), out.Shape()), nil
	})
}

// Mul returns t * o elementwise.
func (t *Tensor[T]) Mul(o *Tensor[T]) (*Tensor[T], error) {
	out, err := t.data.Mul(o.data)
	if err != nil {
		return nil, err
	}
	return tracked(out, t.requiresGrad || o.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewMulNode(t.link(), o.link(), t.data, o.data), nil
	})
}

// Div returns t / o elementwise. It fails with tensor.ErrDivisionByZero if
// any element of o is zero.
func (t *Tensor[T]) Div(o *Tensor[T]) (*Tensor[T], error) {
	out, err := t.data.Div(o.data)
	if err != nil {
		return nil, err
	}
	return tracked(out, t.requiresGrad || o.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewDivNode(t.link(), o.link(), t.data, o.data), nil
	})
}

// MatMul returns the matrix product t @ o.
func (t *Tensor[T]) MatMul(o *Tensor[T]) (*Tensor[T], error) {
	out, err := t.data.MatMul(o.data)
	if err != nil {
		return nil, err
	}
	return tracked(out, t.requiresGrad || o.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewMatMulNode(t.link(), o.link(), t.data, o.data)
	})
}

// AddScalar returns t + k.
func (t *Tensor[T]) AddScalar(k T) (*Tensor[T], error) {
	out := t.data.AddScalar(k)
	return tracked(out, t.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewAddScalarNode(t.link(), out.Shape()), nil
	})
}

// SubScalar returns t - k.
func (t *Tensor[T]) SubScalar(k T) (*Tensor[T], error) {
	out := t.data.SubScalar(k)
	return tracked(out, t.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewSubScalarNode(t.link(), out.Shape()), nil
	})
}

// MulScalar returns t * k.
func (t *Tensor[T]) MulScalar(k T) (*Tensor[T], error) {
	out := t.data.MulScalar(k)
	return tracked(out, t.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewMulScalarNode(t.link(), out.Shape(), k)
	})
}

// DivScalar returns t / k, failing with tensor.ErrDivisionByZero for k == 0.
func (t *Tensor[T]) DivScalar(k T) (*Tensor[T], error) {
	out, err := t.data.DivScalar(k)
	if err != nil {
		return nil, err
	}
	return tracked(out, t.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewDivScalarNode(t.link(), out.Shape(), k)
	})
}

// Sum reduces t to a single-element tensor of shape [1]. A SumNode is
// always attached; it only propagates when t tracks gradients.
func (t *Tensor[T]) Sum() (*Tensor[T], error) {
	out := t.data.Sum()
	node := ops.NewSumNode(t.link(), t.data.Shape())
	return WithNode[T](out, node, t.requiresGrad), nil
}
