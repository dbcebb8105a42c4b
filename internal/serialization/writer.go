package serialization

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/lava-ml/lavatensor/internal/config"
	"github.com/lava-ml/lavatensor/internal/nn"
)

// SaveOptions configures what goes into a network file.
type SaveOptions struct {
	Config     *config.Config    // Configuration snapshot (optional)
	Checkpoint *CheckpointMeta   // Training state (optional)
	Metadata   map[string]string // Free-form metadata (optional)
	Logger     zerolog.Logger
}

var encMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Describe builds the layer list of net and its parameter data.
func Describe(net *nn.Sequential) ([]LayerMeta, []byte, error) {
	layers := make([]LayerMeta, 0, net.Len())
	var data bytes.Buffer
	for i, m := range net.Modules() {
		switch layer := m.(type) {
		case *nn.Linear:
			meta := LayerMeta{
				Type:   LayerLinear,
				In:     layer.InFeatures(),
				Out:    layer.OutFeatures(),
				Offset: int64(data.Len()),
				Size:   linearSize(layer.InFeatures(), layer.OutFeatures()),
			}
			writeFloats(&data, layer.Weight().Data().Values())
			writeFloats(&data, layer.Bias().Data().Values())
			layers = append(layers, meta)
		case *nn.ReLU:
			layers = append(layers, LayerMeta{Type: LayerReLU})
		case *nn.Softmax:
			layers = append(layers, LayerMeta{Type: LayerSoftmax})
		default:
			return nil, nil, fmt.Errorf("%w: module %d is %T", ErrUnsupportedLayer, i, m)
		}
	}
	return layers, data.Bytes(), nil
}

func writeFloats(buf *bytes.Buffer, values []float64) {
	var b [Float64Size]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		buf.Write(b[:])
	}
}

// Write encodes net into w.
func Write(w io.Writer, net *nn.Sequential, opts SaveOptions) error {
	layers, data, err := Describe(net)
	if err != nil {
		return err
	}

	header := Header{
		FormatVersion: FormatVersion,
		ArchHash:      archHash(layers),
		CreatedAt:     time.Now().UTC(),
		Layers:        layers,
		DataSize:      int64(len(data)),
		Checksum:      ComputeChecksum(data),
		Config:        opts.Config,
		Checkpoint:    opts.Checkpoint,
		Metadata:      opts.Metadata,
	}
	if err := ValidateHeader(&header); err != nil {
		return fmt.Errorf("refusing to write invalid network: %w", err)
	}

	headerCBOR, err := encMode.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	flags := uint32(0)
	if opts.Config != nil {
		flags |= FlagHasConfig
	}
	if opts.Checkpoint != nil {
		flags |= FlagCheckpoint
	}

	var fixed [FixedHeaderSize]byte
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[12:20], uint64(len(headerCBOR)))

	for _, chunk := range [][]byte{fixed[:], headerCBOR, data} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("failed to write network: %w", err)
		}
	}
	return nil
}

// Save writes net to path.
func Save(path string, net *nn.Sequential, opts SaveOptions) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, net, opts); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	opts.Logger.Debug().
		Str("path", path).
		Int("layers", net.Len()).
		Bool("checkpoint", opts.Checkpoint != nil).
		Msg("network saved")
	return nil
}
