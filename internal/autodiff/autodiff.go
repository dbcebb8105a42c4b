// Package autodiff implements reverse-mode automatic differentiation on top
// of the strided arrays in package tensor.
//
// A Tensor pairs a data array with a gradient accumulator and, when it
// tracks gradients, the graph node that produced it. Every differentiable
// operation computes its forward result eagerly and, if any operand tracks
// gradients, attaches the matching node from package ops. Backward walks the
// graph from a root and accumulates into the leaves.
//
// Usage:
//
//	a, _ := autodiff.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, true)
//	b, _ := autodiff.FromSlice([]float64{5, 6, 7, 8}, tensor.Shape{2, 2}, true)
//	c, _ := a.MatMul(b)      // [[19 22] [43 50]]
//	s, _ := c.Sum()
//	_ = s.Backward()
//	fmt.Println(a.Grad())   // [[11 15] [11 15]]
package autodiff

import (
	"fmt"
	"sync"

	"github.com/lava-ml/lavatensor/internal/autodiff/ops"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

// Tensor is a differentiable tensor.
//
// A leaf that tracks gradients owns an AccumulateNode pointing back at it.
// Gradient accumulation is serialized by a per-tensor lock, so several
// goroutines may run backward passes that share leaves. Everything else
// assumes a single writer.
type Tensor[T tensor.Numeric] struct {
	data         *tensor.Array[T]
	grad         *tensor.Array[T]
	requiresGrad bool
	node         ops.Node[T]

	mu sync.Mutex // guards grad
}

// New creates a tensor of the given shape initialized by fill.
func New[T tensor.Numeric](shape tensor.Shape, fill tensor.Fill, requiresGrad bool) (*Tensor[T], error) {
	data, err := tensor.New[T](shape, fill)
	if err != nil {
		return nil, err
	}
	return FromArray(data, requiresGrad), nil
}

// FromSlice creates a tensor holding a copy of values.
func FromSlice[T tensor.Numeric](values []T, shape tensor.Shape, requiresGrad bool) (*Tensor[T], error) {
	data, err := tensor.FromSlice(values, shape)
	if err != nil {
		return nil, err
	}
	return FromArray(data, requiresGrad), nil
}

// FromArray wraps data, which the tensor takes ownership of. A tracking
// tensor gets its own AccumulateNode.
func FromArray[T tensor.Numeric](data *tensor.Array[T], requiresGrad bool) *Tensor[T] {
	return WithNode(data, nil, requiresGrad)
}

// WithNode wraps data produced by a graph node. A nil node on a tracking
// tensor is replaced by an AccumulateNode.
func WithNode[T tensor.Numeric](data *tensor.Array[T], node ops.Node[T], requiresGrad bool) *Tensor[T] {
	t := &Tensor[T]{data: data, requiresGrad: requiresGrad, node: node}
	if requiresGrad {
		t.grad = tensor.ZerosLike(data)
		if node == nil {
			t.node = ops.NewAccumulateNode[T](t, data.Shape())
		}
	}
	return t
}

// Data returns the underlying array.
func (t *Tensor[T]) Data() *tensor.Array[T] {
	return t.data
}

// Grad returns the gradient accumulator, or nil when the tensor does not
// track gradients.
func (t *Tensor[T]) Grad() *tensor.Array[T] {
	return t.grad
}

// RequiresGrad reports whether the tensor tracks gradients.
func (t *Tensor[T]) RequiresGrad() bool {
	return t.requiresGrad
}

// Node returns the attached graph node, or nil.
func (t *Tensor[T]) Node() ops.Node[T] {
	return t.node
}

// Shape returns the tensor shape.
func (t *Tensor[T]) Shape() tensor.Shape {
	return t.data.Shape()
}

// String renders the data array.
func (t *Tensor[T]) String() string {
	return t.data.String()
}

// Item returns the value of a single-element tensor.
func (t *Tensor[T]) Item() (T, error) {
	if t.data.Len() != 1 {
		var zero T
		return zero, fmt.Errorf("item of shape %v: %w", t.data.Shape(), tensor.ErrShapeMismatch)
	}
	return t.data.Data()[0], nil
}

// AccumulateGrad adds grad into the gradient buffer. It implements
// ops.GradSink and is safe for concurrent use.
func (t *Tensor[T]) AccumulateGrad(grad *tensor.Array[T]) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.grad == nil {
		t.grad = tensor.ZerosLike(t.data)
	}
	return t.grad.AddInPlace(grad)
}

// ZeroGrad resets the gradient buffer of a tracking tensor to zero.
func (t *Tensor[T]) ZeroGrad() {
	if !t.requiresGrad {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grad.Fill(0)
}

// Backward runs the backward pass from this tensor with an all-ones
// gradient shaped like its data. It is a no-op without an attached node.
func (t *Tensor[T]) Backward() error {
	if t.node == nil {
		return nil
	}
	return t.node.BackwardRoot()
}

// BackwardWith runs the backward pass from this tensor with an explicit
// upstream gradient.
func (t *Tensor[T]) BackwardWith(grad *tensor.Array[T]) error {
	if t.node == nil {
		return nil
	}
	return t.node.Backward(grad)
}

// Detach returns a non-tracking copy of the data.
func (t *Tensor[T]) Detach() *Tensor[T] {
	return FromArray(t.data.Clone(), false)
}

// At reads the element at the given coordinates.
func (t *Tensor[T]) At(coords ...int) (T, error) {
	return t.data.At(coords...)
}

// Set writes v at the given coordinates.
func (t *Tensor[T]) Set(v T, coords ...int) error {
	return t.data.Set(v, coords...)
}

// AtFlat reads the element at buffer offset i.
func (t *Tensor[T]) AtFlat(i int) (T, error) {
	return t.data.AtFlat(i)
}

// SetFlat writes v at buffer offset i.
func (t *Tensor[T]) SetFlat(i int, v T) error {
	return t.data.SetFlat(i, v)
}

// GraphSize returns the number of distinct nodes reachable from t.
func GraphSize[T tensor.Numeric](t *Tensor[T]) int {
	n := 0
	ops.Walk(t.node, func(ops.Node[T]) { n++ })
	return n
}
