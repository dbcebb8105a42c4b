package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lava-ml/lavatensor/internal/tensor"
)

// WeightInit selects the weight initialization scheme of a Linear layer.
type WeightInit int

// Weight initialization schemes.
const (
	// WeightXavier samples U(-sqrt(6/(in+out)), sqrt(6/(in+out))).
	WeightXavier WeightInit = iota
	// WeightHe samples N(0, sqrt(2/in)).
	WeightHe
	// WeightUniform samples U(-1, 1).
	WeightUniform
)

// BiasInit selects the bias initialization scheme of a Linear layer.
type BiasInit int

// Bias initialization schemes.
const (
	// BiasZeros sets every bias to 0.
	BiasZeros BiasInit = iota
	// BiasUniform samples U(-1, 1).
	BiasUniform
)

// ParseWeightInit parses "xavier", "he" or "uniform".
func ParseWeightInit(s string) (WeightInit, error) {
	switch s {
	case "xavier":
		return WeightXavier, nil
	case "he":
		return WeightHe, nil
	case "uniform":
		return WeightUniform, nil
	default:
		return 0, fmt.Errorf("unknown weight init %q (want xavier, he or uniform)", s)
	}
}

// String returns the config spelling of the scheme.
func (w WeightInit) String() string {
	switch w {
	case WeightXavier:
		return "xavier"
	case WeightHe:
		return "he"
	case WeightUniform:
		return "uniform"
	default:
		return fmt.Sprintf("WeightInit(%d)", int(w))
	}
}

// ParseBiasInit parses "zeros" or "uniform".
func ParseBiasInit(s string) (BiasInit, error) {
	switch s {
	case "zeros":
		return BiasZeros, nil
	case "uniform":
		return BiasUniform, nil
	default:
		return 0, fmt.Errorf("unknown bias init %q (want zeros or uniform)", s)
	}
}

// String returns the config spelling of the scheme.
func (b BiasInit) String() string {
	switch b {
	case BiasZeros:
		return "zeros"
	case BiasUniform:
		return "uniform"
	default:
		return fmt.Sprintf("BiasInit(%d)", int(b))
	}
}

// InitWeights creates a [fanIn, fanOut] weight matrix.
func InitWeights(fanIn, fanOut int, scheme WeightInit) (*tensor.Array[float64], error) {
	shape := tensor.Shape{fanIn, fanOut}
	switch scheme {
	case WeightXavier:
		bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
		return sample(shape, distuv.Uniform{Min: -bound, Max: bound})
	case WeightHe:
		return tensor.New[float64](shape, tensor.FillRandom)
	case WeightUniform:
		return sample(shape, distuv.Uniform{Min: -1, Max: 1})
	default:
		return nil, fmt.Errorf("unknown weight init %v", scheme)
	}
}

// InitBias creates a [1, fanOut] bias row.
func InitBias(fanOut int, scheme BiasInit) (*tensor.Array[float64], error) {
	shape := tensor.Shape{1, fanOut}
	switch scheme {
	case BiasZeros:
		return tensor.Zeros[float64](shape)
	case BiasUniform:
		return sample(shape, distuv.Uniform{Min: -1, Max: 1})
	default:
		return nil, fmt.Errorf("unknown bias init %v", scheme)
	}
}

// sample fills a new array with draws from dist.
func sample(shape tensor.Shape, dist distuv.Uniform) (*tensor.Array[float64], error) {
	a, err := tensor.Zeros[float64](shape)
	if err != nil {
		return nil, err
	}
	data := a.Data()
	for i := range data {
		data[i] = dist.Rand()
	}
	return a, nil
}
