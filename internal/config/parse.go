package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lava-ml/lavatensor/internal/nn"
)

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads a configuration from r and validates it.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	section := ""

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: line %d: unterminated section", ErrInvalidConfig, lineNum)
			}
			section = strings.TrimSpace(line[1:end])
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if err := cfg.set(section, key, value); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s.%s: %w", ErrInvalidConfig, lineNum, section, key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) set(section, key, value string) error {
	var err error
	switch section {
	case "architecture":
		a := &c.Architecture
		switch key {
		case "input_size":
			a.InputSize, err = parseSize(value)
		case "hidden_layers":
			a.HiddenLayers, err = parseSize(value)
		case "hidden_sizes":
			a.HiddenSizes, err = parseSizes(value)
		case "output_size":
			a.OutputSize, err = parseSize(value)
		}
	case "hyperparameters":
		h := &c.Hyperparameters
		switch key {
		case "learning_rate":
			h.LearningRate, err = strconv.ParseFloat(value, 64)
		case "batch_size":
			h.BatchSize, err = parseSize(value)
		case "activation":
			h.Activation = value
		case "dropout":
			h.Dropout, err = strconv.ParseFloat(value, 64)
		case "epochs":
			h.Epochs, err = parseSize(value)
		case "samples_per_epoch":
			h.SamplesPerEpoch, err = parseSize(value)
		}
	case "initialization":
		switch key {
		case "weight_init":
			c.Initialization.WeightInit, err = nn.ParseWeightInit(value)
		case "bias_init":
			c.Initialization.BiasInit, err = nn.ParseBiasInit(value)
		}
	case "lr_scheduler":
		s := &c.LRScheduler
		switch key {
		case "type":
			s.Type = value
		case "initial_lr":
			s.InitialLR, err = strconv.ParseFloat(value, 64)
		case "decay_rate":
			s.DecayRate, err = strconv.ParseFloat(value, 64)
		case "decay_steps":
			s.DecaySteps, err = parseSize(value)
		case "min_lr":
			s.MinLR, err = strconv.ParseFloat(value, 64)
		}
	}
	return err
}

func parseSize(value string) (int, error) {
	n, err := strconv.ParseUint(value, 10, 31)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func parseSizes(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := parseSize(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
