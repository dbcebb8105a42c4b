package serialization

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lava-ml/lavatensor/internal/nn"
	"github.com/lava-ml/lavatensor/internal/tensor"
)

var tracer = otel.Tracer("lavatensor/serialization")

// LoadOptions configures network file loading.
type LoadOptions struct {
	SkipChecksumValidation bool // Skip checksum validation (faster but less safe)
	Logger                 zerolog.Logger
}

// File is a decoded network file.
type File struct {
	Header Header
	Flags  uint32
	Net    *nn.Sequential
}

// Read decodes a network file from r and rebuilds its network.
func Read(r io.Reader, opts LoadOptions) (*File, error) {
	var fixed [FixedHeaderSize]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", corrupted(err))
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	file := &File{Flags: binary.LittleEndian.Uint32(fixed[8:12])}

	headerSize := binary.LittleEndian.Uint64(fixed[12:20])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", corrupted(err))
	}
	if err := cbor.Unmarshal(headerBytes, &file.Header); err != nil {
		return nil, fmt.Errorf("%w: failed to parse header: %w", ErrCorruptedFile, err)
	}
	if err := ValidateHeader(&file.Header); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	data := make([]byte, file.Header.DataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read parameter data: %w", corrupted(err))
	}
	if n, _ := r.Read(make([]byte, 1)); n != 0 {
		return nil, fmt.Errorf("%w: trailing bytes after parameter data", ErrCorruptedFile)
	}
	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(data, file.Header.Checksum); err != nil {
			return nil, err
		}
	}

	net, err := Rebuild(file.Header.Layers, data)
	if err != nil {
		return nil, err
	}
	file.Net = net
	return file, nil
}

// Load reads the network file at path.
func Load(ctx context.Context, path string, opts LoadOptions) (*File, error) {
	_, span := tracer.Start(ctx, "serialization.Load")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	file, err := Read(f, opts)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	span.SetAttributes(
		attribute.Int("layers", len(file.Header.Layers)),
		attribute.Int64("data_size", file.Header.DataSize),
	)
	opts.Logger.Debug().
		Str("path", path).
		Uint64("arch_hash", file.Header.ArchHash).
		Int("layers", len(file.Header.Layers)).
		Msg("network loaded")
	return file, nil
}

// Rebuild creates a Sequential from a validated layer list and its data.
func Rebuild(layers []LayerMeta, data []byte) (*nn.Sequential, error) {
	net := nn.NewSequential()
	for i, l := range layers {
		switch l.Type {
		case LayerReLU:
			net.Add(nn.NewReLU())
		case LayerSoftmax:
			net.Add(nn.NewSoftmax())
		case LayerLinear:
			linear, err := rebuildLinear(l, data[l.Offset:l.Offset+l.Size])
			if err != nil {
				return nil, fmt.Errorf("layer %d: %w", i, err)
			}
			net.Add(linear)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedLayer, l.Type)
		}
	}
	return net, nil
}

func rebuildLinear(l LayerMeta, data []byte) (*nn.Linear, error) {
	values := readFloats(data)
	weight, err := tensor.FromSlice(values[:l.In*l.Out], tensor.Shape{l.In, l.Out})
	if err != nil {
		return nil, err
	}
	bias, err := tensor.FromSlice(values[l.In*l.Out:], tensor.Shape{1, l.Out})
	if err != nil {
		return nil, err
	}

	linear, err := nn.NewLinear(l.In, l.Out, nn.WeightXavier, nn.BiasZeros)
	if err != nil {
		return nil, err
	}
	if err := linear.LoadStateDict(nn.StateDict{"weight": weight, "bias": bias}); err != nil {
		return nil, err
	}
	return linear, nil
}

func readFloats(data []byte) []float64 {
	values := make([]float64, len(data)/Float64Size)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*Float64Size:]))
	}
	return values
}

// corrupted maps truncation errors to ErrCorruptedFile.
func corrupted(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrCorruptedFile, err)
	}
	return err
}
