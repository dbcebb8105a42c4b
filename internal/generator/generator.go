// Package generator builds freshly initialized networks from configuration
// files and writes them as network files.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lava-ml/lavatensor/internal/config"
	"github.com/lava-ml/lavatensor/internal/nn"
	"github.com/lava-ml/lavatensor/internal/serialization"
)

// Job asks for Count networks built from the configuration at ConfigPath.
type Job struct {
	ConfigPath string
	Count      int
}

// Options configures Generate.
type Options struct {
	OutDir  string // Output directory; empty writes next to each config
	Workers int    // Concurrent network writers (default: NumCPU)
	Logger  zerolog.Logger
}

// Build creates the network described by cfg: a Linear followed by ReLU per
// hidden size, then a final Linear producing the output logits.
func Build(cfg *config.Config) (*nn.Sequential, error) {
	ini := cfg.Initialization
	net := nn.NewSequential()
	in := cfg.Architecture.InputSize
	for _, size := range cfg.Architecture.HiddenSizes {
		layer, err := nn.NewLinear(in, size, ini.WeightInit, ini.BiasInit)
		if err != nil {
			return nil, err
		}
		net.Add(layer)
		net.Add(nn.NewReLU())
		in = size
	}
	out, err := nn.NewLinear(in, cfg.Architecture.OutputSize, ini.WeightInit, ini.BiasInit)
	if err != nil {
		return nil, err
	}
	net.Add(out)
	return net, nil
}

// OutputPath returns the path of the index-th (1-based) network generated
// from configPath: the config path without its extension plus "_<index>.nn".
func OutputPath(configPath, outDir string, index int) string {
	stem := strings.TrimSuffix(configPath, filepath.Ext(configPath))
	if outDir != "" {
		stem = filepath.Join(outDir, filepath.Base(stem))
	}
	return fmt.Sprintf("%s_%d.nn", stem, index)
}

// Generate runs every job and returns the written paths in job order.
func Generate(ctx context.Context, jobs []Job, opts Options) ([]string, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	type task struct {
		cfg  *config.Config
		path string
	}
	var tasks []task
	for _, job := range jobs {
		if job.Count <= 0 {
			return nil, fmt.Errorf("%s: network count must be greater than 0, got %d", job.ConfigPath, job.Count)
		}
		cfg, err := config.Load(job.ConfigPath)
		if err != nil {
			return nil, err
		}
		for i := 1; i <= job.Count; i++ {
			tasks = append(tasks, task{cfg: cfg, path: OutputPath(job.ConfigPath, opts.OutDir, i)})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	paths := make([]string, len(tasks))
	for i, t := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			net, err := Build(t.cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", t.path, err)
			}
			if err := serialization.Save(t.path, net, serialization.SaveOptions{
				Config: t.cfg,
				Logger: opts.Logger,
			}); err != nil {
				return err
			}
			opts.Logger.Info().
				Str("path", t.path).
				Uint64("arch_hash", t.cfg.ArchHash()).
				Msg("Generated network")
			paths[i] = t.path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
