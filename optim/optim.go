// Copyright 2025 LavaTensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers and learning rate schedules.
package optim

import (
	"github.com/lava-ml/lavatensor/internal/nn"
	"github.com/lava-ml/lavatensor/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with clipping and optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	model, _ := nn.NewLinear(768, 6, nn.WeightXavier, nn.BiasZeros)
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01, Momentum: 0.9})
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Scheduler computes the learning rate for a step.
type Scheduler = optim.Scheduler

// ConstantLR keeps the learning rate fixed.
type ConstantLR = optim.ConstantLR

// ExponentialLR decays the learning rate in stairs.
type ExponentialLR = optim.ExponentialLR
