// Package tensor provides the strided n-dimensional array that backs every
// LavaTensor computation.
//
// An Array owns a flat element buffer plus a shape and a stride vector. It has
// no gradient awareness; the autodiff package layers the computation graph on
// top of it.
package tensor

// Numeric is a constraint for the element types an Array can hold.
type Numeric interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Float is a constraint for floating point element types.
type Float interface {
	~float32 | ~float64
}

// isFloat reports whether T is a floating point type.
func isFloat[T Numeric]() bool {
	return T(1)/T(2) != 0
}

// isSigned reports whether T can hold negative values.
func isSigned[T Numeric]() bool {
	var zero T
	return zero-1 < zero
}
