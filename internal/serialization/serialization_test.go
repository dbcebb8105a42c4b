package serialization_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lava-ml/lavatensor/internal/autodiff"
	"github.com/lava-ml/lavatensor/internal/config"
	"github.com/lava-ml/lavatensor/internal/nn"
	"github.com/lava-ml/lavatensor/internal/serialization"
)

func newNet(t *testing.T, withSoftmax bool) *nn.Sequential {
	t.Helper()
	l1, err := nn.NewLinear(4, 3, nn.WeightUniform, nn.BiasUniform)
	require.NoError(t, err)
	l2, err := nn.NewLinear(3, 2, nn.WeightXavier, nn.BiasUniform)
	require.NoError(t, err)
	net := nn.NewSequential(l1, nn.NewReLU(), l2)
	if withSoftmax {
		net.Add(nn.NewSoftmax())
	}
	return net
}

func encode(t *testing.T, net *nn.Sequential, opts serialization.SaveOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, serialization.Write(&buf, net, opts))
	return buf.Bytes()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse(strings.NewReader(`
[architecture]
input_size = 4
hidden_layers = 1
hidden_sizes = 3
output_size = 2
[hyperparameters]
learning_rate = 0.01
batch_size = 2
`))
	require.NoError(t, err)
	return cfg
}

// TestRoundTrip restores the same layers and parameters.
func TestRoundTrip(t *testing.T) {
	net := newNet(t, true)
	cfg := testConfig(t)
	raw := encode(t, net, serialization.SaveOptions{
		Config:     cfg,
		Checkpoint: &serialization.CheckpointMeta{Epoch: 10, Loss: 0.5, Accuracy: 0.75},
		Metadata:   map[string]string{"source": "test"},
	})

	assert.Equal(t, "LAVA", string(raw[:4]))
	assert.Equal(t, uint32(serialization.FormatVersion), binary.LittleEndian.Uint32(raw[4:8]))

	file, err := serialization.Read(bytes.NewReader(raw), serialization.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, serialization.FlagHasConfig|serialization.FlagCheckpoint, file.Flags)
	assert.Equal(t, cfg.ArchHash(), file.Header.ArchHash)
	require.NotNil(t, file.Header.Config)
	assert.Equal(t, cfg.Architecture, file.Header.Config.Architecture)
	assert.Equal(t, 10, file.Header.Checkpoint.Epoch)
	assert.Equal(t, "test", file.Header.Metadata["source"])
	assert.Equal(t, int64((4*3+3+3*2+2)*8), file.Header.DataSize)

	require.Equal(t, net.Len(), file.Net.Len())
	assert.IsType(t, &nn.Linear{}, file.Net.Module(0))
	assert.IsType(t, &nn.ReLU{}, file.Net.Module(1))
	assert.IsType(t, &nn.Softmax{}, file.Net.Module(3))

	want, got := net.StateDict(), file.Net.StateDict()
	require.Len(t, got, len(want))
	for name, w := range want {
		assert.Equal(t, w.Values(), got[name].Values(), name)
	}

	x, err := autodiff.FromSlice([]float64{1, -2, 0.5, 3}, []int{1, 4}, false)
	require.NoError(t, err)
	y1, err := net.Forward(x)
	require.NoError(t, err)
	y2, err := file.Net.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, y1.Data().Values(), y2.Data().Values())
}

// TestSaveLoad goes through the file system.
func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.nn")
	net := newNet(t, false)
	require.NoError(t, serialization.Save(path, net, serialization.SaveOptions{}))

	file, err := serialization.Load(context.Background(), path, serialization.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), file.Flags)
	assert.Nil(t, file.Header.Config)
	assert.Equal(t, 3, file.Net.Len())

	_, err = serialization.Load(context.Background(), filepath.Join(t.TempDir(), "missing.nn"), serialization.LoadOptions{})
	assert.Error(t, err)
}

// TestRead_Corruption rejects damaged files.
func TestRead_Corruption(t *testing.T) {
	raw := encode(t, newNet(t, false), serialization.SaveOptions{})

	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(raw)
		copy(bad, "BORN")
		_, err := serialization.Read(bytes.NewReader(bad), serialization.LoadOptions{})
		assert.ErrorIs(t, err, serialization.ErrInvalidMagic)
	})

	t.Run("version", func(t *testing.T) {
		bad := bytes.Clone(raw)
		binary.LittleEndian.PutUint32(bad[4:8], 9)
		_, err := serialization.Read(bytes.NewReader(bad), serialization.LoadOptions{})
		assert.ErrorIs(t, err, serialization.ErrUnsupportedVersion)
	})

	t.Run("header size", func(t *testing.T) {
		bad := bytes.Clone(raw)
		binary.LittleEndian.PutUint64(bad[12:20], 1<<40)
		_, err := serialization.Read(bytes.NewReader(bad), serialization.LoadOptions{})
		assert.ErrorIs(t, err, serialization.ErrHeaderTooLarge)
	})

	t.Run("checksum", func(t *testing.T) {
		bad := bytes.Clone(raw)
		bad[len(bad)-1] ^= 0xff
		_, err := serialization.Read(bytes.NewReader(bad), serialization.LoadOptions{})
		assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)

		_, err = serialization.Read(bytes.NewReader(bad), serialization.LoadOptions{SkipChecksumValidation: true})
		assert.NoError(t, err)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := serialization.Read(bytes.NewReader(raw[:len(raw)-4]), serialization.LoadOptions{})
		assert.ErrorIs(t, err, serialization.ErrCorruptedFile)

		_, err = serialization.Read(bytes.NewReader(raw[:10]), serialization.LoadOptions{})
		assert.ErrorIs(t, err, serialization.ErrCorruptedFile)
	})

	t.Run("trailing", func(t *testing.T) {
		bad := append(bytes.Clone(raw), 0)
		_, err := serialization.Read(bytes.NewReader(bad), serialization.LoadOptions{})
		assert.ErrorIs(t, err, serialization.ErrCorruptedFile)
	})
}

// TestWrite_ConfigMismatch refuses a config that describes another network.
func TestWrite_ConfigMismatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Architecture.OutputSize = 5

	var buf bytes.Buffer
	err := serialization.Write(&buf, newNet(t, false), serialization.SaveOptions{Config: cfg})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

// TestWrite_UnsupportedLayer rejects modules the format cannot store.
func TestWrite_UnsupportedLayer(t *testing.T) {
	net := nn.NewSequential(nn.NewSequential())
	var buf bytes.Buffer
	assert.ErrorIs(t, serialization.Write(&buf, net, serialization.SaveOptions{}), serialization.ErrUnsupportedLayer)
}
