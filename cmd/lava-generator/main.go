// Command lava-generator creates freshly initialized networks from
// configuration files.
//
// Usage:
//
//	lava-generator [flags] config_1 nb_1 [config_2 nb_2 ...]
//
// Each config produces nb networks written next to it as <config>_<i>.nn.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lava-ml/lavatensor/internal/generator"
	"github.com/lava-ml/lavatensor/internal/telemetry"
)

const exitFailure = 84

const usage = "USAGE: lava-generator [flags] config_file_1 nb_1 [config_file_2 nb_2 ...]"

type options struct {
	jobs     []generator.Job
	outDir   string
	workers  int
	logLevel string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lava-generator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	fs.StringVar(&opts.outDir, "out-dir", "", "Write networks to this directory instead of next to each config")
	fs.IntVar(&opts.workers, "workers", 0, "Concurrent network writers (0 = number of CPUs)")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) < 2 || len(rest)%2 != 0 {
		return nil, errors.New("invalid number of arguments\n" + usage)
	}
	for i := 0; i < len(rest); i += 2 {
		n, err := strconv.Atoi(rest[i+1])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid number of networks %q for %s", rest[i+1], rest[i])
		}
		opts.jobs = append(opts.jobs, generator.Job{ConfigPath: rest[i], Count: n})
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	logger, err := telemetry.NewLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}

	paths, err := generator.Generate(ctx, opts.jobs, generator.Options{
		OutDir:  opts.outDir,
		Workers: opts.workers,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	logger.Info().Int("networks", len(paths)).Msg("Generation complete")
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			log.Error().Msgf("Error: %v", err)
		}
		stop()
		os.Exit(exitFailure)
	}
}
