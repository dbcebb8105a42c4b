// Copyright 2025 LavaTensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Every differentiable operation on a Tensor that tracks gradients attaches
// a graph node to its result. Backward walks the graph from the result and
// accumulates gradients into the leaf tensors.
//
// Example:
//
//	a, _ := autodiff.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, true)
//	b, _ := autodiff.FromSlice([]float64{5, 6, 7, 8}, tensor.Shape{2, 2}, true)
//	c, _ := a.MatMul(b)
//	_ = c.Backward()
//	fmt.Println(a.Grad()) // [[11 15] [11 15]]
package autodiff

import (
	"github.com/lava-ml/lavatensor/internal/autodiff"
	"github.com/lava-ml/lavatensor/internal/autodiff/ops"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

// Tensor is an array with an optional gradient and graph node.
type Tensor[T tensor.Numeric] = autodiff.Tensor[T]

// Node is one step of the backward graph.
type Node[T tensor.Numeric] = ops.Node[T]

// ErrNotImplemented is returned by backward passes that are not available.
var ErrNotImplemented = ops.ErrNotImplemented

// New creates a tensor filled according to fill.
func New[T tensor.Numeric](shape tensor.Shape, fill tensor.Fill, requiresGrad bool) (*Tensor[T], error) {
	return autodiff.New[T](shape, fill, requiresGrad)
}

// FromSlice copies values into a new tensor.
func FromSlice[T tensor.Numeric](values []T, shape tensor.Shape, requiresGrad bool) (*Tensor[T], error) {
	return autodiff.FromSlice(values, shape, requiresGrad)
}

// FromArray wraps an existing array.
func FromArray[T tensor.Numeric](data *tensor.Array[T], requiresGrad bool) *Tensor[T] {
	return autodiff.FromArray(data, requiresGrad)
}

// ReLU applies max(0, x).
func ReLU[T tensor.Numeric](x *Tensor[T]) (*Tensor[T], error) {
	return autodiff.ReLU(x)
}

// Softmax normalizes x into probabilities. It can not be differentiated.
func Softmax[T tensor.Float](x *Tensor[T]) (*Tensor[T], error) {
	return autodiff.Softmax(x)
}

// CrossEntropy returns -log(softmax(logits)[target]).
func CrossEntropy[T tensor.Float](logits *Tensor[T], target int) (*Tensor[T], error) {
	return autodiff.CrossEntropy(logits, target)
}

// GraphSize counts the distinct nodes reachable from t.
func GraphSize[T tensor.Numeric](t *Tensor[T]) int {
	return autodiff.GraphSize(t)
}
