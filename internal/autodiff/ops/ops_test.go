package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lava-ml/lavatensor/internal/autodiff/ops"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

// sink records the gradients delivered to a leaf.
type sink struct {
	grad *tensor.Array[float64]
}

func (s *sink) AccumulateGrad(grad *tensor.Array[float64]) error {
	if s.grad == nil {
		s.grad = grad.Clone()
		return nil
	}
	return s.grad.AddInPlace(grad)
}

func leaf(shape tensor.Shape) (*sink, ops.Node[float64]) {
	s := &sink{}
	return s, ops.NewAccumulateNode[float64](s, shape)
}

func arr(t *testing.T, data []float64, shape tensor.Shape) *tensor.Array[float64] {
	t.Helper()
	a, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return a
}

// TestAccumulateNode_Sums checks repeated contributions add up.
func TestAccumulateNode_Sums(t *testing.T) {
	s, n := leaf(tensor.Shape{2})

	require.NoError(t, n.Backward(arr(t, []float64{1, 2}, tensor.Shape{2})))
	require.NoError(t, n.BackwardRoot())
	assert.Equal(t, []float64{2, 3}, s.grad.Data())
	assert.Empty(t, n.Next())

	err := n.Backward(arr(t, []float64{1, 2, 3}, tensor.Shape{3}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

// TestAddSubNode forward the gradient and its negation.
func TestAddSubNode(t *testing.T) {
	shape := tensor.Shape{2}
	grad := arr(t, []float64{3, -1}, shape)

	sa, la := leaf(shape)
	sb, lb := leaf(shape)
	require.NoError(t, ops.NewAddNode(la, lb, shape).Backward(grad))
	assert.Equal(t, []float64{3, -1}, sa.grad.Data())
	assert.Equal(t, []float64{3, -1}, sb.grad.Data())

	sc, lc := leaf(shape)
	sd, ld := leaf(shape)
	require.NoError(t, ops.NewSubNode(lc, ld, shape).Backward(grad))
	assert.Equal(t, []float64{3, -1}, sc.grad.Data())
	assert.Equal(t, []float64{-3, 1}, sd.grad.Data())

	assert.Equal(t, []float64{3, -1}, grad.Data(), "incoming gradient must not be mutated")

	se, le := leaf(shape)
	require.NoError(t, ops.NewSubScalarNode(le, shape).BackwardRoot())
	assert.Equal(t, []float64{1, 1}, se.grad.Data())
}

// TestMulNode applies the product rule on private copies.
func TestMulNode(t *testing.T) {
	shape := tensor.Shape{3}
	a := arr(t, []float64{1, 2, 3}, shape)
	b := arr(t, []float64{4, 5, 6}, shape)

	sa, la := leaf(shape)
	sb, lb := leaf(shape)
	node := ops.NewMulNode(la, lb, a, b)

	a.Fill(100)
	require.NoError(t, node.BackwardRoot())
	assert.Equal(t, []float64{4, 5, 6}, sa.grad.Data())
	assert.Equal(t, []float64{1, 2, 3}, sb.grad.Data())

	sk, lk := leaf(shape)
	scalar, err := ops.NewMulScalarNode(lk, shape, 2.5)
	require.NoError(t, err)
	require.NoError(t, scalar.BackwardRoot())
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, sk.grad.Data())
	assert.Nil(t, scalar.Next()[1])
}

// TestDivNode applies the quotient rule.
func TestDivNode(t *testing.T) {
	shape := tensor.Shape{2}
	a := arr(t, []float64{1, 6}, shape)
	b := arr(t, []float64{2, 3}, shape)

	sa, la := leaf(shape)
	sb, lb := leaf(shape)
	require.NoError(t, ops.NewDivNode(la, lb, a, b).BackwardRoot())
	assert.InDeltaSlice(t, []float64{0.5, 1.0 / 3}, sa.grad.Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{-0.25, -6.0 / 9}, sb.grad.Data(), 1e-12)

	sk, lk := leaf(shape)
	scalar, err := ops.NewDivScalarNode(lk, shape, 4.0)
	require.NoError(t, err)
	require.NoError(t, scalar.BackwardRoot())
	assert.Equal(t, []float64{0.25, 0.25}, sk.grad.Data())
}

// TestMatMulNode checks grad@Bᵀ and Aᵀ@grad.
func TestMatMulNode(t *testing.T) {
	a := arr(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := arr(t, []float64{5, 6, 7, 8}, tensor.Shape{2, 2})

	sa, la := leaf(tensor.Shape{2, 2})
	sb, lb := leaf(tensor.Shape{2, 2})
	node, err := ops.NewMatMulNode(la, lb, a, b)
	require.NoError(t, err)

	require.NoError(t, node.BackwardRoot())
	assert.Equal(t, []float64{11, 15, 11, 15}, sa.grad.Data())
	assert.Equal(t, []float64{4, 4, 6, 6}, sb.grad.Data())
}

// TestMatMulNode_Vector reshapes the gradient of a 1-D operand.
func TestMatMulNode_Vector(t *testing.T) {
	x := arr(t, []float64{1, 2}, tensor.Shape{2})
	w := arr(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	sx, lx := leaf(tensor.Shape{2})
	sw, lw := leaf(tensor.Shape{2, 3})
	node, err := ops.NewMatMulNode(lx, lw, x, w)
	require.NoError(t, err)

	require.NoError(t, node.BackwardRoot())
	assert.Equal(t, tensor.Shape{2}, sx.grad.Shape())
	assert.Equal(t, []float64{6, 15}, sx.grad.Data())
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, sw.grad.Data())
}

// TestSumNode broadcasts the scalar gradient.
func TestSumNode(t *testing.T) {
	s, l := leaf(tensor.Shape{2, 2})
	node := ops.NewSumNode(l, tensor.Shape{2, 2})

	require.NoError(t, node.Backward(arr(t, []float64{3}, tensor.Shape{1})))
	assert.Equal(t, []float64{3, 3, 3, 3}, s.grad.Data())

	err := node.Backward(arr(t, []float64{1, 2}, tensor.Shape{2}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

// TestReLUNode masks non-positive inputs.
func TestReLUNode(t *testing.T) {
	x := arr(t, []float64{-1, 0, 2}, tensor.Shape{3})
	s, l := leaf(tensor.Shape{3})

	require.NoError(t, ops.NewReLUNode(l, x).Backward(arr(t, []float64{5, 5, 5}, tensor.Shape{3})))
	assert.Equal(t, []float64{0, 0, 5}, s.grad.Data())
}

// TestCrossEntropyNode subtracts the one-hot target on every call.
func TestCrossEntropyNode(t *testing.T) {
	probs := arr(t, []float64{0.2, 0.3, 0.5}, tensor.Shape{1, 3})
	s, l := leaf(tensor.Shape{1, 3})

	node, err := ops.NewCrossEntropyNode(l, probs, 1)
	require.NoError(t, err)
	require.NoError(t, node.BackwardRoot())
	require.NoError(t, node.Backward(arr(t, []float64{2}, tensor.Shape{1})))

	assert.InDeltaSlice(t, []float64{0.6, -2.1, 1.5}, s.grad.Data(), 1e-12)

	_, err = ops.NewCrossEntropyNode(l, probs, 3)
	assert.ErrorIs(t, err, tensor.ErrIndexOutOfRange)
}

// TestSoftmaxNode_NotImplemented fails on both entry points.
func TestSoftmaxNode_NotImplemented(t *testing.T) {
	_, l := leaf(tensor.Shape{3})
	node := ops.NewSoftmaxNode(l)

	assert.ErrorIs(t, node.BackwardRoot(), ops.ErrNotImplemented)
	assert.ErrorIs(t, node.Backward(arr(t, []float64{1, 1, 1}, tensor.Shape{3})), ops.ErrNotImplemented)
}

// TestWalk visits shared nodes once.
func TestWalk(t *testing.T) {
	shape := tensor.Shape{2}
	_, x := leaf(shape)
	left := ops.NewAddScalarNode(x, shape)
	right := ops.NewSubScalarNode(x, shape)
	root := ops.NewAddNode[float64](left, right, shape)

	var names []string
	ops.Walk[float64](root, func(n ops.Node[float64]) {
		names = append(names, n.Name())
	})
	assert.Equal(t, []string{"AddBackward", "AddBackward", "AccumulateGrad", "SubBackward"}, names)
}
