// Package optim implements the optimizers that update network parameters
// from the gradients accumulated by backward passes.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: stochastic gradient descent with clipping and optional momentum
//   - Scheduler: learning rate schedules driven by the step count
//
// Example usage:
//
//	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
//	for _, batch := range batches {
//	    opt.ZeroGrad()
//	    for _, sample := range batch {
//	        loss := forward(model, sample)
//	        _ = loss.Backward()
//	    }
//	    _ = opt.Step()
//	}
package optim

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies the accumulated gradients to every parameter.
	Step() error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64

	// SetLR replaces the learning rate, e.g. from a Scheduler.
	SetLR(lr float64)
}
