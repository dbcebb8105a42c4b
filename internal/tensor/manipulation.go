package tensor

import "fmt"

// Transpose returns a new row-major 2-D array with rows and columns swapped:
// out[j, i] = a[i, j]. The elements are physically permuted, unlike
// Transposed which only reinterprets the buffer.
func (a *Array[T]) Transpose() (*Array[T], error) {
	if a.Rank() != 2 {
		return nil, fmt.Errorf("transpose %v: array must be 2-D: %w", a.shape, ErrShapeMismatch)
	}
	rows, cols := a.shape[0], a.shape[1]
	out := newContiguous[T](Shape{cols, rows})
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[j*rows+i] = a.data[i*a.strides[0]+j*a.strides[1]]
		}
	}
	return out, nil
}

// Transposed reverses the shape and strides in place and returns a. The
// backing buffer is not rearranged, so a becomes a non-contiguous view.
func (a *Array[T]) Transposed() *Array[T] {
	for i, j := 0, len(a.shape)-1; i < j; i, j = i+1, j-1 {
		a.shape[i], a.shape[j] = a.shape[j], a.shape[i]
		a.strides[i], a.strides[j] = a.strides[j], a.strides[i]
	}
	return a
}

// Unsqueeze inserts a size-1 axis at dim, which may equal the rank to
// append a trailing axis.
func (a *Array[T]) Unsqueeze(dim int) error {
	if dim < 0 || dim > len(a.shape) {
		return fmt.Errorf("unsqueeze axis %d of rank %d: %w", dim, len(a.shape), ErrDimensionMismatch)
	}
	stride := 1
	if dim < len(a.shape) {
		stride = a.strides[dim] * a.shape[dim]
	}
	a.shape = append(a.shape[:dim:dim], append(Shape{1}, a.shape[dim:]...)...)
	a.strides = append(a.strides[:dim:dim], append([]int{stride}, a.strides[dim:]...)...)
	return nil
}

// RemoveDim drops the size-1 axis at dim.
func (a *Array[T]) RemoveDim(dim int) error {
	if dim < 0 || dim >= len(a.shape) {
		return fmt.Errorf("remove axis %d of rank %d: %w", dim, len(a.shape), ErrDimensionMismatch)
	}
	if a.shape[dim] != 1 {
		return fmt.Errorf("remove axis %d of shape %v: axis size is not 1: %w", dim, a.shape, ErrShapeMismatch)
	}
	if len(a.shape) == 1 {
		return fmt.Errorf("remove the only axis of %v: %w", a.shape, ErrInvalidShape)
	}
	a.shape = append(a.shape[:dim:dim], a.shape[dim+1:]...)
	a.strides = append(a.strides[:dim:dim], a.strides[dim+1:]...)
	return nil
}
