package tensor

import "errors"

// Array errors. Operations wrap them with context, so match with errors.Is.
var (
	// ErrInvalidShape is returned when a dimension is not positive.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrShapeMismatch is returned for operands that cannot be combined.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDimensionMismatch is returned when a coordinate list does not match the rank.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrIndexOutOfRange is returned for a flat or coordinate index beyond bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDivisionByZero is returned when any divisor element is exactly zero.
	ErrDivisionByZero = errors.New("division by zero")
)
