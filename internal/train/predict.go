package train

import (
	"context"
	"fmt"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/lava-ml/lavatensor/internal/autodiff"
	"github.com/lava-ml/lavatensor/internal/chess"
	"github.com/lava-ml/lavatensor/internal/nn"
)

// Prediction is the network's verdict on one board.
type Prediction struct {
	FEN           string
	Label         chess.Label
	Confidence    float64   // Probability of Label
	Probabilities []float64 // Softmax over all classes
}

// Predict classifies every sample. Labels on the samples are ignored.
// workers bounds concurrency (0 means NumCPU).
func Predict(ctx context.Context, net nn.Module, samples []chess.Sample, workers int) ([]Prediction, error) {
	ctx, span := tracer.Start(ctx, "train.Predict")
	defer span.End()
	span.SetAttributes(attribute.Int("samples", len(samples)))

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	preds := make([]Prediction, len(samples))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range samples {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logits, err := forward(net, s.Features)
			if err != nil {
				return fmt.Errorf("line %d: %w", s.Line, err)
			}
			probs := autodiff.SoftmaxArray(logits.Data()).Values()
			best := floats.MaxIdx(probs)
			preds[i] = Prediction{
				FEN:           s.FEN,
				Label:         chess.Label(best),
				Confidence:    probs[best],
				Probabilities: probs,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, p := range preds {
		predictions.WithLabelValues(p.Label.String()).Inc()
	}
	return preds, nil
}

// Evaluate returns the accuracy of net over the labeled samples.
func Evaluate(ctx context.Context, net nn.Module, samples []chess.Sample, workers int) (float64, error) {
	labeled := make([]chess.Sample, 0, len(samples))
	for _, s := range samples {
		if s.HasLabel {
			labeled = append(labeled, s)
		}
	}
	if len(labeled) == 0 {
		return 0, ErrNoSamples
	}

	preds, err := Predict(ctx, net, labeled, workers)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range preds {
		if p.Label == labeled[i].Label {
			correct++
		}
	}
	return float64(correct) / float64(len(labeled)), nil
}
