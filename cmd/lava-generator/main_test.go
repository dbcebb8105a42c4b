package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lava-ml/lavatensor/internal/generator"
)

// TestParseArgs accepts config/count pairs.
func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"--out-dir", "out", "a.conf", "2", "b.conf", "1"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "out", opts.outDir)
	assert.Equal(t, "info", opts.logLevel)
	assert.Equal(t, []generator.Job{
		{ConfigPath: "a.conf", Count: 2},
		{ConfigPath: "b.conf", Count: 1},
	}, opts.jobs)
}

// TestParseArgs_Invalid rejects odd counts and bad numbers.
func TestParseArgs_Invalid(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"a.conf"},
		{"a.conf", "1", "b.conf"},
		{"a.conf", "zero"},
		{"a.conf", "0"},
		{"a.conf", "-2"},
		{"--bogus", "a.conf", "1"},
	} {
		_, err := parseArgs(args, io.Discard)
		assert.Error(t, err, "%v", args)
	}
}

// TestRun generates networks end to end.
func TestRun(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "small.conf")
	require.NoError(t, os.WriteFile(conf, []byte(`
[architecture]
input_size = 768
hidden_layers = 1
hidden_sizes = 8
output_size = 6
[hyperparameters]
learning_rate = 0.01
batch_size = 4
`), 0o600))

	require.NoError(t, run(context.Background(), []string{"--log-level", "error", conf, "2"}, io.Discard))
	assert.FileExists(t, filepath.Join(dir, "small_1.nn"))
	assert.FileExists(t, filepath.Join(dir, "small_2.nn"))

	assert.Error(t, run(context.Background(), []string{"--log-level", "nope", conf, "1"}, io.Discard))
}
