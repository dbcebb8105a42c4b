// Package config parses and validates network configuration files.
//
// The format is INI-like:
//
//	# comment
//	[architecture]
//	input_size = 768
//	hidden_layers = 2
//	hidden_sizes = 256,64
//	output_size = 6
//
//	[hyperparameters]
//	learning_rate = 0.01
//	batch_size = 32
//
//	[initialization]
//	weight_init = he
//	bias_init = zeros
//
//	[lr_scheduler]
//	type = exponential
//
// Unknown sections and keys are ignored. Unknown values for enumerated keys
// are rejected.
package config

import (
	"errors"
	"fmt"

	"github.com/lava-ml/lavatensor/internal/nn"
	"github.com/lava-ml/lavatensor/internal/optim"
)

// ErrInvalidConfig is returned for malformed or out-of-range configuration.
var ErrInvalidConfig = errors.New("invalid config")

// Architecture describes the layer sizes of a network.
type Architecture struct {
	InputSize    int   `cbor:"input_size"`
	HiddenLayers int   `cbor:"hidden_layers"`
	HiddenSizes  []int `cbor:"hidden_sizes"`
	OutputSize   int   `cbor:"output_size"`
}

// Hyperparameters holds the training settings.
type Hyperparameters struct {
	LearningRate    float64 `cbor:"learning_rate"`
	BatchSize       int     `cbor:"batch_size"`
	Activation      string  `cbor:"activation"`
	Dropout         float64 `cbor:"dropout"`
	Epochs          int     `cbor:"epochs"`
	SamplesPerEpoch int     `cbor:"samples_per_epoch"`
}

// Initialization selects the parameter initialization schemes.
type Initialization struct {
	WeightInit nn.WeightInit `cbor:"weight_init"`
	BiasInit   nn.BiasInit   `cbor:"bias_init"`
}

// LRScheduler configures learning rate decay.
type LRScheduler struct {
	Type       string  `cbor:"type"`
	InitialLR  float64 `cbor:"initial_lr"`
	DecayRate  float64 `cbor:"decay_rate"`
	DecaySteps int     `cbor:"decay_steps"`
	MinLR      float64 `cbor:"min_lr"`
}

// Config is a parsed network configuration.
type Config struct {
	Architecture    Architecture    `cbor:"architecture"`
	Hyperparameters Hyperparameters `cbor:"hyperparameters"`
	Initialization  Initialization  `cbor:"initialization"`
	LRScheduler     LRScheduler     `cbor:"lr_scheduler"`
}

// Default returns a configuration with the scheduler defaults set and
// Xavier weights with zero biases.
func Default() *Config {
	return &Config{
		Initialization: Initialization{
			WeightInit: nn.WeightXavier,
			BiasInit:   nn.BiasZeros,
		},
		LRScheduler: LRScheduler{
			Type:       "none",
			InitialLR:  0.01,
			DecayRate:  0.95,
			DecaySteps: 100,
			MinLR:      0.0001,
		},
	}
}

// Validate checks every constraint on the configuration.
func (c *Config) Validate() error {
	a, h, s := c.Architecture, c.Hyperparameters, c.LRScheduler
	switch {
	case a.InputSize <= 0:
		return invalid("Input size must be greater than 0")
	case a.OutputSize <= 0:
		return invalid("Output size must be greater than 0")
	case a.HiddenLayers != len(a.HiddenSizes):
		return invalid("Number of hidden layers does not match hidden sizes")
	case h.LearningRate <= 0:
		return invalid("Learning rate must be greater than 0")
	case h.BatchSize <= 0:
		return invalid("Batch size must be greater than 0")
	case h.Dropout < 0 || h.Dropout >= 1:
		return invalid("Dropout must be between 0 and 1")
	case s.Type != "none" && s.Type != "exponential":
		return invalid("Invalid learning rate scheduler type")
	case s.DecayRate <= 0 || s.DecayRate > 1:
		return invalid("Decay rate must be between 0 and 1")
	case s.DecaySteps <= 0:
		return invalid("Decay steps must be greater than 0")
	case s.MinLR < 0:
		return invalid("Minimum learning rate must be non-negative")
	}
	for i, size := range a.HiddenSizes {
		if size <= 0 {
			return invalid(fmt.Sprintf("Hidden size %d must be greater than 0", i))
		}
	}
	return nil
}

// ArchHash fingerprints the layer sizes. It starts from the input size and
// folds in each hidden size and then the output size as hash*31 + size.
func (c *Config) ArchHash() uint64 {
	return ArchHash(c.Architecture.InputSize, c.Architecture.HiddenSizes, c.Architecture.OutputSize)
}

// ArchHash fingerprints a layer size sequence.
func ArchHash(input int, hidden []int, output int) uint64 {
	hash := uint64(input)
	for _, h := range hidden {
		hash = hash*31 + uint64(h)
	}
	return hash*31 + uint64(output)
}

// Scheduler builds the learning rate schedule described by the config.
// With type "none" the rate stays at the hyperparameter learning rate.
func (c *Config) Scheduler() (optim.Scheduler, error) {
	s := c.LRScheduler
	return optim.NewScheduler(s.Type, c.Hyperparameters.LearningRate, optim.ExponentialLR{
		InitialLR:  s.InitialLR,
		DecayRate:  s.DecayRate,
		DecaySteps: s.DecaySteps,
		MinLR:      s.MinLR,
	})
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
