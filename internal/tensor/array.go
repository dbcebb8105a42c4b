package tensor

import (
	"fmt"
	"strings"
)

// Array is a strided n-dimensional array of numeric elements.
//
// The element at coordinates (i0, i1, ..., ik) lives at
// data[i0*strides[0] + i1*strides[1] + ... + ik*strides[k]].
// Freshly built arrays are row-major; Transposed and the 1-D matmul
// promotion produce views whose strides differ from the row-major layout.
//
// Arrays are not safe for concurrent mutation.
type Array[T Numeric] struct {
	shape   Shape
	strides []int
	data    []T
}

// newContiguous allocates a zero-filled row-major array. The shape must
// already be validated.
func newContiguous[T Numeric](shape Shape) *Array[T] {
	return &Array[T]{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    make([]T, shape.NumElements()),
	}
}

// Shape returns a copy of the array dimensions.
func (a *Array[T]) Shape() Shape {
	return a.shape.Clone()
}

// Strides returns a copy of the per-axis element offsets.
func (a *Array[T]) Strides() []int {
	strides := make([]int, len(a.strides))
	copy(strides, a.strides)
	return strides
}

// Rank returns the number of axes.
func (a *Array[T]) Rank() int {
	return len(a.shape)
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	return len(a.data)
}

// Data returns the backing buffer. Writes through the returned slice are
// visible to the array.
func (a *Array[T]) Data() []T {
	return a.data
}

// IsContiguous reports whether the strides are the row-major strides of the shape.
func (a *Array[T]) IsContiguous() bool {
	want := a.shape.ComputeStrides()
	for i := range want {
		if a.strides[i] != want[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy that keeps the same shape and strides.
func (a *Array[T]) Clone() *Array[T] {
	data := make([]T, len(a.data))
	copy(data, a.data)
	return &Array[T]{
		shape:   a.shape.Clone(),
		strides: a.Strides(),
		data:    data,
	}
}

// Contiguous returns a row-major copy with the same logical contents.
func (a *Array[T]) Contiguous() *Array[T] {
	out := newContiguous[T](a.shape)
	a.gather(out.data)
	return out
}

// Values returns the elements in logical row-major order.
func (a *Array[T]) Values() []T {
	values := make([]T, len(a.data))
	a.gather(values)
	return values
}

// gather copies the elements into dst in logical row-major order.
func (a *Array[T]) gather(dst []T) {
	if a.IsContiguous() {
		copy(dst, a.data)
		return
	}
	for i := range dst {
		dst[i] = a.data[a.physical(i)]
	}
}

// physical maps a logical row-major position to an offset in data.
func (a *Array[T]) physical(i int) int {
	off := 0
	for k := len(a.shape) - 1; k >= 0; k-- {
		off += (i % a.shape[k]) * a.strides[k]
		i /= a.shape[k]
	}
	return off
}

// Fill overwrites every element with v.
func (a *Array[T]) Fill(v T) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Reshape returns a row-major copy with a new shape holding the same
// number of elements.
func (a *Array[T]) Reshape(shape Shape) (*Array[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(a.data) {
		return nil, fmt.Errorf("reshape %v to %v: %w", a.shape, shape, ErrShapeMismatch)
	}
	out := newContiguous[T](shape)
	a.gather(out.data)
	return out, nil
}

// Equal reports whether both arrays have the same shape and the same
// logical elements. Strides may differ.
func (a *Array[T]) Equal(other *Array[T]) bool {
	if !a.shape.Equal(other.shape) {
		return false
	}
	av, bv := a.Values(), other.Values()
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}

// String renders the array as nested brackets, e.g. [[1 2] [3 4]].
func (a *Array[T]) String() string {
	var sb strings.Builder
	values := a.Values()
	pos := 0
	var walk func(axis int)
	walk = func(axis int) {
		sb.WriteByte('[')
		for i := 0; i < a.shape[axis]; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if axis == len(a.shape)-1 {
				fmt.Fprint(&sb, values[pos])
				pos++
			} else {
				walk(axis + 1)
			}
		}
		sb.WriteByte(']')
	}
	walk(0)
	return sb.String()
}
