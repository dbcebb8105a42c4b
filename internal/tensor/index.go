package tensor

import "fmt"

// offset computes the stride-weighted buffer offset of coords.
func (a *Array[T]) offset(coords []int) (int, error) {
	if len(coords) != len(a.shape) {
		return 0, fmt.Errorf("%w: %d coordinates for rank %d", ErrDimensionMismatch, len(coords), len(a.shape))
	}
	off := 0
	for k, c := range coords {
		if c < 0 || c >= a.shape[k] {
			return 0, fmt.Errorf("%w: coordinate %d on axis %d of extent %d", ErrIndexOutOfRange, c, k, a.shape[k])
		}
		off += c * a.strides[k]
	}
	return off, nil
}

// At returns the element at the given coordinates.
//
// Example:
//
//	v, err := a.At(1, 0)
func (a *Array[T]) At(coords ...int) (T, error) {
	off, err := a.offset(coords)
	if err != nil {
		var zero T
		return zero, err
	}
	return a.data[off], nil
}

// Set writes v at the given coordinates.
func (a *Array[T]) Set(v T, coords ...int) error {
	off, err := a.offset(coords)
	if err != nil {
		return err
	}
	a.data[off] = v
	return nil
}

// AtFlat returns the element at buffer offset i.
func (a *Array[T]) AtFlat(i int) (T, error) {
	if i < 0 || i >= len(a.data) {
		var zero T
		return zero, fmt.Errorf("%w: flat index %d of %d", ErrIndexOutOfRange, i, len(a.data))
	}
	return a.data[i], nil
}

// SetFlat writes v at buffer offset i.
func (a *Array[T]) SetFlat(i int, v T) error {
	if i < 0 || i >= len(a.data) {
		return fmt.Errorf("%w: flat index %d of %d", ErrIndexOutOfRange, i, len(a.data))
	}
	a.data[i] = v
	return nil
}
