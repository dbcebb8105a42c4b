// Package ops defines the gradient nodes of the reverse-mode computation graph.
//
// Every differentiable operation attaches one Node to its result. A node
// keeps private copies of whatever operand data its derivative needs and
// links to the nodes of its operands (nil when an operand is not tracked).
// Backward composes the local derivative with the incoming gradient and
// forwards the result to each present link, ending at Accumulate leaves.
//
// Supported nodes:
//   - AccumulateNode: leaf sink, adds the incoming gradient into a tensor
//   - AddNode: d(a+b)/da = 1, d(a+b)/db = 1
//   - SubNode: d(a-b)/da = 1, d(a-b)/db = -1
//   - MulNode: d(a*b)/da = b, d(a*b)/db = a
//   - DivNode: d(a/b)/da = 1/b, d(a/b)/db = -a/b²
//   - MatMulNode: d(A@B)/dA = grad@Bᵀ, d(A@B)/dB = Aᵀ@grad
//   - SumNode: d(Σx)/dx = 1
//   - ReLUNode: d(ReLU(x))/dx = 1 if x > 0, else 0
//   - CrossEntropyNode: d(CE)/dlogits = softmax(logits) - onehot(target)
//   - SoftmaxNode: backward is not implemented
package ops

import (
	"fmt"

	"github.com/lava-ml/lavatensor/internal/tensor"
)

// Node is one unit of the computation graph.
//
// The graph is acyclic: a node only links to nodes that existed before it.
// A node reachable through two paths is visited once per path, so leaves
// receive the sum of every contribution.
type Node[T tensor.Numeric] interface {
	// Backward propagates grad, the gradient of the root with respect to
	// this node's output, to every linked operand node.
	Backward(grad *tensor.Array[T]) error

	// BackwardRoot starts a backward pass at this node with an implicit
	// all-ones gradient shaped like the node's output.
	BackwardRoot() error

	// Next returns the operand links. Entries are nil for untracked operands.
	Next() []Node[T]

	// Name identifies the node kind, e.g. "MulBackward".
	Name() string
}

// GradSink receives gradients at the leaves of the graph.
type GradSink[T tensor.Numeric] interface {
	AccumulateGrad(grad *tensor.Array[T]) error
}

// seed runs n.Backward with ones of the given shape.
func seed[T tensor.Numeric](n Node[T], shape tensor.Shape) error {
	ones, err := tensor.Ones[T](shape)
	if err != nil {
		return err
	}
	return n.Backward(ones)
}

// propagate forwards grad to next when the link is present.
func propagate[T tensor.Numeric](next Node[T], grad *tensor.Array[T]) error {
	if next == nil {
		return nil
	}
	return next.Backward(grad)
}

// checkGrad verifies that an incoming gradient matches the node output.
func checkGrad[T tensor.Numeric](name string, grad *tensor.Array[T], out tensor.Shape) error {
	if !grad.Shape().Equal(out) {
		return fmt.Errorf("%s: gradient shape %v for output %v: %w", name, grad.Shape(), out, tensor.ErrShapeMismatch)
	}
	return nil
}

// scalarGrad extracts the value of a single-element gradient.
func scalarGrad[T tensor.Numeric](name string, grad *tensor.Array[T]) (T, error) {
	if grad.Len() != 1 {
		var zero T
		return zero, fmt.Errorf("%s: expected a single-element gradient, got shape %v: %w", name, grad.Shape(), tensor.ErrShapeMismatch)
	}
	return grad.Data()[0], nil
}

// Walk calls fn once for every distinct node reachable from root,
// parents before operands.
func Walk[T tensor.Numeric](root Node[T], fn func(Node[T])) {
	seen := make(map[Node[T]]bool)
	var visit func(n Node[T])
	visit = func(n Node[T]) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		fn(n)
		for _, next := range n.Next() {
			visit(next)
		}
	}
	visit(root)
}
