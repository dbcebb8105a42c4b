// Copyright 2025 LavaTensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides strided N-dimensional arrays.
//
// # Overview
//
// An Array stores its elements in a flat buffer addressed through per-axis
// strides, so transposition is a view and shapes never alias data silently.
// Every operation that can fail returns an error wrapping one of the
// package errors; match them with errors.Is.
//
// # Basic Usage
//
//	import "github.com/lava-ml/lavatensor/tensor"
//
//	a, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
//	b, err := tensor.New[float64](tensor.Shape{2, 2}, tensor.FillOne)
//	c, err := a.MatMul(b)          // [[3 3] [7 7]]
//	v, err := c.At(1, 0)           // 7
//	_, err = a.Div(zeros)        // errors.Is(err, tensor.ErrDivisionByZero)
package tensor

import "github.com/lava-ml/lavatensor/internal/tensor"

// Numeric is the set of element types an Array can hold.
type Numeric = tensor.Numeric

// Float is the set of floating-point element types.
type Float = tensor.Float

// Shape lists the extent of every axis.
type Shape = tensor.Shape

// Array is a strided N-dimensional array.
type Array[T Numeric] = tensor.Array[T]

// Fill selects how a new array is initialized.
type Fill = tensor.Fill

// Fill policies.
const (
	FillZero   = tensor.FillZero
	FillOne    = tensor.FillOne
	FillRange  = tensor.FillRange
	FillRandom = tensor.FillRandom
)

// Errors returned by array operations.
var (
	ErrInvalidShape      = tensor.ErrInvalidShape
	ErrShapeMismatch     = tensor.ErrShapeMismatch
	ErrDimensionMismatch = tensor.ErrDimensionMismatch
	ErrIndexOutOfRange   = tensor.ErrIndexOutOfRange
	ErrDivisionByZero    = tensor.ErrDivisionByZero
)

// New creates a contiguous array filled according to fill.
func New[T Numeric](shape Shape, fill Fill) (*Array[T], error) {
	return tensor.New[T](shape, fill)
}

// Zeros creates a zero-filled array.
func Zeros[T Numeric](shape Shape) (*Array[T], error) {
	return tensor.Zeros[T](shape)
}

// Ones creates an array of ones.
func Ones[T Numeric](shape Shape) (*Array[T], error) {
	return tensor.Ones[T](shape)
}

// Full creates an array with every element set to value.
func Full[T Numeric](shape Shape, value T) (*Array[T], error) {
	return tensor.Full(shape, value)
}

// FromSlice copies data into a new array of the given shape.
func FromSlice[T Numeric](data []T, shape Shape) (*Array[T], error) {
	return tensor.FromSlice(data, shape)
}

// NewStrided creates a zero-filled array with explicit strides.
func NewStrided[T Numeric](shape Shape, strides []int) (*Array[T], error) {
	return tensor.NewStrided[T](shape, strides)
}
