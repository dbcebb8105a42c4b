// Copyright 2025 LavaTensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks on float64 tensors.
//
// Example:
//
//	hidden, _ := nn.NewLinear(768, 64, nn.WeightHe, nn.BiasZeros)
//	out, _ := nn.NewLinear(64, 6, nn.WeightXavier, nn.BiasZeros)
//	model := nn.NewSequential(hidden, nn.NewReLU(), out)
//	logits, err := model.Forward(x)
//	loss, err := nn.NewCrossEntropyLoss().Forward(logits, label)
package nn

import "github.com/lava-ml/lavatensor/internal/nn"

// Tensor is the tensor type flowing through modules.
type Tensor = nn.Tensor

// Module is implemented by every layer.
type Module = nn.Module

// Parameter is a named trainable tensor.
type Parameter = nn.Parameter

// StateDict maps parameter names to their values.
type StateDict = nn.StateDict

// Layers

// Linear is a fully connected layer.
type Linear = nn.Linear

// NewLinear creates a Linear layer.
func NewLinear(inFeatures, outFeatures int, weightInit WeightInit, biasInit BiasInit) (*Linear, error) {
	return nn.NewLinear(inFeatures, outFeatures, weightInit, biasInit)
}

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a Sequential from modules.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Activations

// ReLU applies max(0, x).
type ReLU = nn.ReLU

// NewReLU creates a ReLU activation.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Softmax turns logits into probabilities.
type Softmax = nn.Softmax

// NewSoftmax creates a Softmax activation.
func NewSoftmax() *Softmax {
	return nn.NewSoftmax()
}

// Loss

// CrossEntropyLoss is the softmax cross-entropy of one sample.
type CrossEntropyLoss = nn.CrossEntropyLoss

// NewCrossEntropyLoss creates the loss function.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return nn.NewCrossEntropyLoss()
}

// Initialization

// WeightInit selects a weight initialization scheme.
type WeightInit = nn.WeightInit

// BiasInit selects a bias initialization scheme.
type BiasInit = nn.BiasInit

// Initialization schemes.
const (
	WeightXavier  = nn.WeightXavier
	WeightHe      = nn.WeightHe
	WeightUniform = nn.WeightUniform
	BiasZeros     = nn.BiasZeros
	BiasUniform   = nn.BiasUniform
)
