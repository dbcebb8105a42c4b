// Command lava-analyzer classifies chess positions with a trained network,
// or trains a network on labeled positions.
//
// Usage:
//
//	lava-analyzer [flags] --predict LOADFILE FILE
//	lava-analyzer [flags] --train [--save SAVEFILE] LOADFILE FILE
//
// FILE holds one FEN per line, optionally followed by its outcome label.
// Prediction prints one label per board. Training writes the updated network
// to SAVEFILE, or back to LOADFILE.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lava-ml/lavatensor/internal/chess"
	"github.com/lava-ml/lavatensor/internal/config"
	"github.com/lava-ml/lavatensor/internal/export"
	"github.com/lava-ml/lavatensor/internal/optim"
	"github.com/lava-ml/lavatensor/internal/serialization"
	"github.com/lava-ml/lavatensor/internal/telemetry"
	"github.com/lava-ml/lavatensor/internal/train"
)

const exitFailure = 84

const usage = "USAGE: lava-analyzer [--predict | --train [--save SAVEFILE]] LOADFILE FILE"

type options struct {
	predict     bool
	train       bool
	saveFile    string
	loadFile    string
	inputFile   string
	workers     int
	epochs      int
	metricsAddr string
	trace       bool
	arrowOut    string
	logLevel    string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lava-analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	fs.BoolVar(&opts.predict, "predict", false, "Print the predicted outcome of every board")
	fs.BoolVar(&opts.train, "train", false, "Train the network on the labeled boards")
	fs.StringVar(&opts.saveFile, "save", "", "Where to write the trained network (default: LOADFILE)")
	fs.IntVar(&opts.workers, "workers", 0, "Concurrent samples (0 = number of CPUs)")
	fs.IntVar(&opts.epochs, "epochs", 0, "Training epochs (0 = config value or 100)")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.BoolVar(&opts.trace, "trace", false, "Print OpenTelemetry spans to stderr")
	fs.StringVar(&opts.arrowOut, "arrow-out", "", "Also write predictions as an Arrow IPC stream to this file")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case opts.predict == opts.train:
		return nil, errors.New("must specify either --predict or --train mode\n" + usage)
	case opts.saveFile != "" && !opts.train:
		return nil, errors.New("--save requires --train\n" + usage)
	case fs.NArg() != 2:
		return nil, errors.New("missing LOADFILE or FILE argument\n" + usage)
	}
	opts.loadFile, opts.inputFile = fs.Arg(0), fs.Arg(1)
	if opts.saveFile == "" {
		opts.saveFile = opts.loadFile
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	logger, err := telemetry.NewLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}

	if opts.trace {
		shutdown, terr := telemetry.InitTracer(stderr, "lava-analyzer")
		if terr != nil {
			return fmt.Errorf("failed to initialize tracer: %w", terr)
		}
		defer func() {
			err = errors.Join(err, shutdown(context.Background()))
		}()
	}
	if opts.metricsAddr != "" {
		srv, _, err := telemetry.ServeMetrics(opts.metricsAddr, logger)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	file, err := serialization.Load(ctx, opts.loadFile, serialization.LoadOptions{Logger: logger})
	if err != nil {
		return err
	}
	logger.Info().Str("path", opts.loadFile).Int("layers", file.Net.Len()).Msg("Loaded network")

	samples, err := chess.LoadDataset(opts.inputFile)
	if err != nil {
		return err
	}

	if opts.predict {
		return predict(ctx, opts, file, samples, stdout)
	}
	return fit(ctx, opts, file, samples, logger)
}

func predict(ctx context.Context, opts *options, file *serialization.File, samples []chess.Sample, stdout io.Writer) error {
	preds, err := train.Predict(ctx, file.Net, samples, opts.workers)
	if err != nil {
		return err
	}
	for _, p := range preds {
		if _, err := fmt.Fprintln(stdout, p.Label); err != nil {
			return err
		}
	}

	if opts.arrowOut == "" {
		return nil
	}
	out, err := os.Create(opts.arrowOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.arrowOut, err)
	}
	if err := export.WritePredictions(out, preds); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func fit(ctx context.Context, opts *options, file *serialization.File, samples []chess.Sample, logger zerolog.Logger) error {
	cfg := file.Header.Config
	if cfg == nil {
		cfg = config.Default()
		cfg.Hyperparameters.LearningRate = 0.01
		cfg.Hyperparameters.BatchSize = 32
	}
	sched, err := cfg.Scheduler()
	if err != nil {
		return err
	}
	epochs := cfg.Hyperparameters.Epochs
	if opts.epochs > 0 {
		epochs = opts.epochs
	}

	save := func(meta *serialization.CheckpointMeta) error {
		return serialization.Save(opts.saveFile, file.Net, serialization.SaveOptions{
			Config:     file.Header.Config,
			Checkpoint: meta,
			Metadata:   file.Header.Metadata,
			Logger:     logger,
		})
	}

	opt := optim.NewSGD(file.Net.Parameters(), optim.SGDConfig{LR: sched.LR(0)})
	trainer := train.New(opt, train.Config{
		Epochs:    epochs,
		BatchSize: cfg.Hyperparameters.BatchSize,
		Workers:   opts.workers,
		Scheduler: sched,
		Checkpoint: func(s train.EpochStats) error {
			return save(&serialization.CheckpointMeta{Epoch: s.Epoch, Loss: s.Loss, Accuracy: s.Accuracy})
		},
		Logger: logger,
	})

	history, err := trainer.Fit(ctx, file.Net, samples)
	if err != nil {
		return err
	}
	if err := save(nil); err != nil {
		return err
	}

	last := history[len(history)-1]
	logger.Info().
		Str("path", opts.saveFile).
		Float64("loss", last.Loss).
		Float64("accuracy", last.Accuracy).
		Int("skipped_updates", opt.Skipped()).
		Msg("Training completed")
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			log.Error().Msgf("Error: %v", err)
		}
		stop()
		os.Exit(exitFailure)
	}
}
