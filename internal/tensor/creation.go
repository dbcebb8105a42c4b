package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Fill selects how a freshly constructed array is initialized.
type Fill int

// Supported fill policies.
const (
	// FillZero sets every element to 0.
	FillZero Fill = iota
	// FillOne sets every element to 1.
	FillOne
	// FillRange sets element i (row-major) to i.
	FillRange
	// FillRandom samples He-style values scaled by the first dimension.
	FillRandom
)

// String returns the policy name.
func (f Fill) String() string {
	switch f {
	case FillZero:
		return "zero"
	case FillOne:
		return "one"
	case FillRange:
		return "range"
	case FillRandom:
		return "random"
	default:
		return fmt.Sprintf("Fill(%d)", int(f))
	}
}

// New creates a row-major array of the given shape initialized by fill.
//
// FillRandom draws floating point elements from N(0, sqrt(2/shape[0])) and
// integer elements uniformly from [-sqrt(6/shape[0]), sqrt(6/shape[0])],
// rounded (unsigned types use the non-negative half of that range).
//
// Example:
//
//	w, err := tensor.New[float64](tensor.Shape{768, 64}, tensor.FillRandom)
func New[T Numeric](shape Shape, fill Fill) (*Array[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	a := newContiguous[T](shape)

	switch fill {
	case FillZero:
		// make() already zeroed the buffer.
	case FillOne:
		a.Fill(1)
	case FillRange:
		for i := range a.data {
			a.data[i] = T(i)
		}
	case FillRandom:
		fillRandom(a.data, shape[0])
	default:
		return nil, fmt.Errorf("unknown fill policy %v", fill)
	}
	return a, nil
}

// Zeros creates a zero-filled array.
func Zeros[T Numeric](shape Shape) (*Array[T], error) {
	return New[T](shape, FillZero)
}

// Ones creates an array filled with ones.
func Ones[T Numeric](shape Shape) (*Array[T], error) {
	return New[T](shape, FillOne)
}

// Full creates an array filled with value.
func Full[T Numeric](shape Shape, value T) (*Array[T], error) {
	a, err := New[T](shape, FillZero)
	if err != nil {
		return nil, err
	}
	a.Fill(value)
	return a, nil
}

// NewStrided creates a zero-filled array with an explicit stride vector.
//
// It is used for gradient buffers and scratch arrays that must mirror the
// memory layout of an existing array, including transposed views. The
// strides must map coordinates one to one onto the buffer.
func NewStrided[T Numeric](shape Shape, strides []int) (*Array[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(strides) != len(shape) {
		return nil, fmt.Errorf("%w: %d strides for rank %d", ErrDimensionMismatch, len(strides), len(shape))
	}
	size := shape.NumElements()
	last := 0
	for k, s := range strides {
		if s < 0 {
			return nil, fmt.Errorf("%w: negative stride %d at axis %d", ErrInvalidShape, s, k)
		}
		last += (shape[k] - 1) * s
	}
	if last >= size {
		return nil, fmt.Errorf("%w: strides %v address offset %d beyond %d elements", ErrInvalidShape, strides, last, size)
	}

	s := make([]int, len(strides))
	copy(s, strides)
	a := &Array[T]{
		shape:   shape.Clone(),
		strides: s,
		data:    make([]T, size),
	}

	// Each buffer slot must belong to exactly one coordinate.
	seen := make([]bool, size)
	for i := range size {
		off := a.physical(i)
		if seen[off] {
			return nil, fmt.Errorf("%w: strides %v map two coordinates to offset %d", ErrInvalidShape, strides, off)
		}
		seen[off] = true
	}
	return a, nil
}

// FromSlice creates a row-major array holding a copy of data.
//
// Example:
//
//	a, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T Numeric](data []T, shape Shape) (*Array[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(data), shape)
	}
	a := newContiguous[T](shape)
	copy(a.data, data)
	return a, nil
}

// ZerosLike creates a zero-filled array with the shape and strides of a.
func ZerosLike[T Numeric](a *Array[T]) *Array[T] {
	return &Array[T]{
		shape:   a.shape.Clone(),
		strides: a.Strides(),
		data:    make([]T, len(a.data)),
	}
}

// OnesLike creates a row-major array of ones with the shape of a.
func OnesLike[T Numeric](a *Array[T]) *Array[T] {
	out := newContiguous[T](a.shape)
	out.Fill(1)
	return out
}

func fillRandom[T Numeric](data []T, fanIn int) {
	if isFloat[T]() {
		dist := distuv.Normal{Mu: 0, Sigma: math.Sqrt(2 / float64(fanIn))}
		for i := range data {
			data[i] = T(dist.Rand())
		}
		return
	}

	bound := math.Sqrt(6 / float64(fanIn))
	dist := distuv.Uniform{Min: -bound, Max: bound}
	if !isSigned[T]() {
		dist.Min = 0
	}
	for i := range data {
		data[i] = T(math.Round(dist.Rand()))
	}
}
