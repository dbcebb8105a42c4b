package autodiff

import (
	"math"

	"github.com/lava-ml/lavatensor/internal/autodiff/ops"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

// probabilityEpsilon bounds probabilities away from 0 and 1 inside the log.
const probabilityEpsilon = 1e-7

// ReLU returns max(0, x) elementwise.
func ReLU[T tensor.Numeric](x *Tensor[T]) (*Tensor[T], error) {
	out := x.data.Map(func(v T) T {
		if v > 0 {
			return v
		}
		return 0
	})
	return tracked(out, x.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewReLUNode(x.link(), x.data), nil
	})
}

// Softmax normalizes all elements of x into a probability distribution.
// Its result can not be differentiated: backward through it fails with
// ops.ErrNotImplemented. Use CrossEntropy for training.
func Softmax[T tensor.Float](x *Tensor[T]) (*Tensor[T], error) {
	out := SoftmaxArray(x.data)
	return tracked(out, x.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewSoftmaxNode(x.link()), nil
	})
}

// SoftmaxArray computes exp(x - max(x)) / Σexp(x - max(x)) over every
// element of x. The result is row-major with the shape of x.
func SoftmaxArray[T tensor.Float](x *tensor.Array[T]) *tensor.Array[T] {
	values := x.Values()
	maxVal := math.Inf(-1)
	for _, v := range values {
		maxVal = math.Max(maxVal, float64(v))
	}

	exps := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		exps[i] = math.Exp(float64(v) - maxVal)
		sum += exps[i]
	}

	out := x.Contiguous()
	data := out.Data()
	for i := range data {
		data[i] = T(exps[i] / sum)
	}
	return out
}

// CrossEntropy returns the loss -log(softmax(logits)[target]) of a single
// sample as a tensor of shape [1]. target is the row-major class index.
//
// The probability is clamped to [1e-7, 1-1e-7] before the log. When logits
// track gradients the result carries a CrossEntropyNode whose backward pass
// is softmax(logits) - onehot(target).
func CrossEntropy[T tensor.Float](logits *Tensor[T], target int) (*Tensor[T], error) {
	probs := SoftmaxArray(logits.data)
	p, err := probs.AtFlat(target)
	if err != nil {
		return nil, err
	}
	clamped := math.Min(math.Max(float64(p), probabilityEpsilon), 1-probabilityEpsilon)

	out, err := tensor.Full(tensor.Shape{1}, T(-math.Log(clamped)))
	if err != nil {
		return nil, err
	}
	return tracked(out, logits.requiresGrad, func() (ops.Node[T], error) {
		return ops.NewCrossEntropyNode(logits.link(), probs, target)
	})
}
