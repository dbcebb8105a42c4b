// Package train fits networks on labeled chess boards and runs predictions.
package train

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/lava-ml/lavatensor/internal/autodiff"
	"github.com/lava-ml/lavatensor/internal/chess"
	"github.com/lava-ml/lavatensor/internal/nn"
	"github.com/lava-ml/lavatensor/internal/optim"
)

var tracer = otel.Tracer("lavatensor/train")

// ErrNoSamples is returned when there is nothing to train or evaluate on.
var ErrNoSamples = errors.New("no labeled samples")

// Config holds the training loop settings.
type Config struct {
	Epochs          int             // Passes over the data (default: 100)
	BatchSize       int             // Samples per optimizer step (default: 32)
	Workers         int             // Concurrent samples per batch (default: NumCPU)
	Scheduler       optim.Scheduler // Learning rate per step (optional)
	CheckpointEvery int             // Epochs between checkpoints (default: 10)
	Checkpoint      func(EpochStats) error
	Rand            *rand.Rand // Shuffle source (default: random seed)
	Logger          zerolog.Logger
}

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch    int // 1-based
	Loss     float64
	Accuracy float64
	LR       float64
	Duration time.Duration
}

// Trainer runs mini-batch training with an optimizer.
type Trainer struct {
	cfg       Config
	opt       optim.Optimizer
	criterion *nn.CrossEntropyLoss
	step      int
}

// New creates a Trainer. Zero config fields take their defaults.
func New(opt optim.Optimizer, cfg Config) *Trainer {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 100
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = 10
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Trainer{
		cfg:       cfg,
		opt:       opt,
		criterion: nn.NewCrossEntropyLoss(),
	}
}

// Fit trains net on samples, which must all be labeled. Each batch clears
// the gradients, runs its samples concurrently with the loss scaled by
// 1/batch, waits for every backward pass and then steps the optimizer.
// Cancellation is checked between batches.
func (t *Trainer) Fit(ctx context.Context, net nn.Module, samples []chess.Sample) ([]EpochStats, error) {
	ctx, span := tracer.Start(ctx, "train.Fit", trace.WithAttributes(
		attribute.Int("samples", len(samples)),
		attribute.Int("epochs", t.cfg.Epochs),
	))
	defer span.End()

	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	for _, s := range samples {
		if !s.HasLabel {
			return nil, fmt.Errorf("line %d: %w", s.Line, ErrNoSamples)
		}
	}

	t.cfg.Logger.Info().
		Int("samples", len(samples)).
		Int("epochs", t.cfg.Epochs).
		Int("batch_size", t.cfg.BatchSize).
		Int("workers", t.cfg.Workers).
		Float64("lr", t.opt.LR()).
		Msg("Starting training")

	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}

	history := make([]EpochStats, 0, t.cfg.Epochs)
	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		stats, err := t.epoch(ctx, net, samples, order, epoch)
		if err != nil {
			span.RecordError(err)
			return history, err
		}
		history = append(history, stats)

		t.cfg.Logger.Info().
			Int("epoch", epoch).
			Float64("loss", stats.Loss).
			Float64("accuracy", stats.Accuracy).
			Float64("lr", stats.LR).
			Dur("duration", stats.Duration).
			Msgf("Epoch %d/%d", epoch, t.cfg.Epochs)

		if t.cfg.Checkpoint != nil && epoch%t.cfg.CheckpointEvery == 0 {
			if err := t.cfg.Checkpoint(stats); err != nil {
				return history, fmt.Errorf("checkpoint at epoch %d: %w", epoch, err)
			}
			t.cfg.Logger.Info().Int("epoch", epoch).Msg("Checkpoint saved")
		}
	}
	return history, nil
}

func (t *Trainer) epoch(ctx context.Context, net nn.Module, samples []chess.Sample, order []int, epoch int) (EpochStats, error) {
	ctx, span := tracer.Start(ctx, "train.Epoch")
	defer span.End()
	start := time.Now()

	t.cfg.Rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	losses := make([]float64, len(samples))
	hits := make([]bool, len(samples))
	for lo := 0; lo < len(order); lo += t.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return EpochStats{}, err
		}
		batch := order[lo:min(lo+t.cfg.BatchSize, len(order))]
		if err := t.batch(ctx, net, samples, batch, losses, hits); err != nil {
			return EpochStats{}, err
		}
	}

	correct := 0
	for _, h := range hits {
		if h {
			correct++
		}
	}
	stats := EpochStats{
		Epoch:    epoch,
		Loss:     floats.Sum(losses) / float64(len(losses)),
		Accuracy: float64(correct) / float64(len(samples)),
		LR:       t.opt.LR(),
		Duration: time.Since(start),
	}

	epochLoss.Set(stats.Loss)
	epochAccuracy.Set(stats.Accuracy)
	epochDuration.Observe(stats.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("epoch", epoch),
		attribute.Float64("loss", stats.Loss),
		attribute.Float64("accuracy", stats.Accuracy),
	)
	return stats, nil
}

// batch accumulates the gradients of one mini-batch and applies them.
// losses and hits are indexed by sample.
func (t *Trainer) batch(ctx context.Context, net nn.Module, samples []chess.Sample, batch []int, losses []float64, hits []bool) error {
	t.opt.ZeroGrad()
	scale := 1 / float64(len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Workers)
	for _, idx := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := samples[idx]
			logits, err := forward(net, s.Features)
			if err != nil {
				return fmt.Errorf("line %d: %w", s.Line, err)
			}
			loss, err := t.criterion.Forward(logits, int(s.Label))
			if err != nil {
				return fmt.Errorf("line %d: %w", s.Line, err)
			}
			if losses[idx], err = loss.Item(); err != nil {
				return err
			}
			hits[idx] = floats.MaxIdx(logits.Data().Values()) == int(s.Label)

			scaled, err := loss.MulScalar(scale)
			if err != nil {
				return err
			}
			return scaled.Backward()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	samplesProcessed.Add(float64(len(batch)))

	if err := t.opt.Step(); err != nil {
		return err
	}
	t.step++
	if t.cfg.Scheduler != nil {
		t.opt.SetLR(t.cfg.Scheduler.LR(t.step))
	}
	learningRate.Set(t.opt.LR())
	return nil
}

// forward runs one board through net as a [1, features] row.
func forward(net nn.Module, features []float64) (*nn.Tensor, error) {
	x, err := autodiff.FromSlice(features, []int{1, len(features)}, false)
	if err != nil {
		return nil, err
	}
	return net.Forward(x)
}
