package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lava-ml/lavatensor/internal/config"
	"github.com/lava-ml/lavatensor/internal/nn"
)

const basic = `
# chess classifier
[architecture]
input_size = 768
hidden_layers = 2
hidden_sizes = 256, 64
output_size = 6

[hyperparameters]
learning_rate = 0.05
batch_size = 32
activation = relu
dropout = 0.1
epochs = 40
samples_per_epoch = 1000

[initialization]
weight_init = he
bias_init = uniform

[lr_scheduler]
type = exponential
initial_lr = 0.1
decay_rate = 0.9
decay_steps = 50
min_lr = 0.001
`

// TestParse_Basic reads every section.
func TestParse_Basic(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(basic))
	require.NoError(t, err)

	assert.Equal(t, config.Architecture{
		InputSize: 768, HiddenLayers: 2, HiddenSizes: []int{256, 64}, OutputSize: 6,
	}, cfg.Architecture)
	assert.Equal(t, 0.05, cfg.Hyperparameters.LearningRate)
	assert.Equal(t, 32, cfg.Hyperparameters.BatchSize)
	assert.Equal(t, "relu", cfg.Hyperparameters.Activation)
	assert.Equal(t, 40, cfg.Hyperparameters.Epochs)
	assert.Equal(t, 1000, cfg.Hyperparameters.SamplesPerEpoch)
	assert.Equal(t, nn.WeightHe, cfg.Initialization.WeightInit)
	assert.Equal(t, nn.BiasUniform, cfg.Initialization.BiasInit)
	assert.Equal(t, config.LRScheduler{
		Type: "exponential", InitialLR: 0.1, DecayRate: 0.9, DecaySteps: 50, MinLR: 0.001,
	}, cfg.LRScheduler)

	sched, err := cfg.Scheduler()
	require.NoError(t, err)
	assert.InDelta(t, 0.09, sched.LR(50), 1e-12)
}

// TestParse_Defaults fills the scheduler and init defaults.
func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(`
[architecture]
input_size = 4
hidden_layers = 0
output_size = 2
[hyperparameters]
learning_rate = 0.01
batch_size = 1
`))
	require.NoError(t, err)

	assert.Empty(t, cfg.Architecture.HiddenSizes)
	assert.Equal(t, nn.WeightXavier, cfg.Initialization.WeightInit)
	assert.Equal(t, nn.BiasZeros, cfg.Initialization.BiasInit)
	assert.Equal(t, config.LRScheduler{
		Type: "none", InitialLR: 0.01, DecayRate: 0.95, DecaySteps: 100, MinLR: 0.0001,
	}, cfg.LRScheduler)

	sched, err := cfg.Scheduler()
	require.NoError(t, err)
	assert.Equal(t, 0.01, sched.LR(10000))
}

// TestParse_Invalid rejects every out-of-range setting.
func TestParse_Invalid(t *testing.T) {
	base := map[string]string{
		"input_size":    "input_size = 4",
		"hidden_layers": "hidden_layers = 1",
		"hidden_sizes":  "hidden_sizes = 3",
		"output_size":   "output_size = 2",
		"learning_rate": "learning_rate = 0.01",
		"batch_size":    "batch_size = 1",
	}
	build := func(override map[string]string, extra string) string {
		lines := map[string]string{}
		for k, v := range base {
			lines[k] = v
		}
		for k, v := range override {
			lines[k] = v
		}
		return "[architecture]\n" + lines["input_size"] + "\n" + lines["hidden_layers"] + "\n" +
			lines["hidden_sizes"] + "\n" + lines["output_size"] + "\n[hyperparameters]\n" +
			lines["learning_rate"] + "\n" + lines["batch_size"] + "\n" + extra
	}

	tests := []struct {
		name     string
		override map[string]string
		extra    string
		msg      string
	}{
		{"zero input", map[string]string{"input_size": "input_size = 0"}, "", "Input size must be greater than 0"},
		{"zero output", map[string]string{"output_size": "output_size = 0"}, "", "Output size must be greater than 0"},
		{"layer count", map[string]string{"hidden_layers": "hidden_layers = 2"}, "", "Number of hidden layers does not match hidden sizes"},
		{"learning rate", map[string]string{"learning_rate": "learning_rate = 0"}, "", "Learning rate must be greater than 0"},
		{"batch size", map[string]string{"batch_size": "batch_size = 0"}, "", "Batch size must be greater than 0"},
		{"dropout", nil, "dropout = 1", "Dropout must be between 0 and 1"},
		{"scheduler type", nil, "[lr_scheduler]\ntype = cosine", "Invalid learning rate scheduler type"},
		{"decay rate", nil, "[lr_scheduler]\ndecay_rate = 1.5", "Decay rate must be between 0 and 1"},
		{"decay steps", nil, "[lr_scheduler]\ndecay_steps = 0", "Decay steps must be greater than 0"},
		{"min lr", nil, "[lr_scheduler]\nmin_lr = -1", "Minimum learning rate must be non-negative"},
		{"weight init", nil, "[initialization]\nweight_init = lecun", "weight init"},
		{"bias init", nil, "[initialization]\nbias_init = ones", "bias init"},
		{"bad number", map[string]string{"input_size": "input_size = many"}, "", "input_size"},
		{"negative size", map[string]string{"hidden_sizes": "hidden_sizes = -3"}, "", "hidden_sizes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(build(tt.override, tt.extra)))
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

// TestArchHash folds sizes with a factor of 31.
func TestArchHash(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(basic))
	require.NoError(t, err)

	want := ((uint64(768)*31+256)*31+64)*31 + 6
	assert.Equal(t, want, cfg.ArchHash())
	assert.Equal(t, uint64(4*31+2), config.ArchHash(4, nil, 2))
}

// TestLoad reads from disk and reports missing files.
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.conf")
	require.NoError(t, os.WriteFile(path, []byte(basic), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 768, cfg.Architecture.InputSize)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.conf"))
	assert.Error(t, err)
}
