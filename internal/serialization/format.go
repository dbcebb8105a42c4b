package serialization

import (
	"time"

	"github.com/lava-ml/lavatensor/internal/config"
)

// Format constants.
const (
	MagicBytes      = "LAVA"
	FormatVersion   = 1
	FixedHeaderSize = 4 + 4 + 4 + 8 // magic + version + flags + header size
	ChecksumSize    = 32            // SHA-256
	Float64Size     = 8
)

// Flags for the .nn format.
const (
	FlagHasConfig  uint32 = 1 << 0 // bit 0: configuration snapshot included
	FlagCheckpoint uint32 = 1 << 1 // bit 1: written during training
)

// Layer type names.
const (
	LayerLinear  = "linear"
	LayerReLU    = "relu"
	LayerSoftmax = "softmax"
)

// Header is the CBOR header of a network file.
type Header struct {
	FormatVersion int                `cbor:"format_version"`
	ArchHash      uint64             `cbor:"arch_hash"`
	CreatedAt     time.Time          `cbor:"created_at"`
	Layers        []LayerMeta        `cbor:"layers"`
	DataSize      int64              `cbor:"data_size"`
	Checksum      [ChecksumSize]byte `cbor:"checksum"`
	Config        *config.Config     `cbor:"config,omitempty"`
	Checkpoint    *CheckpointMeta    `cbor:"checkpoint,omitempty"`
	Metadata      map[string]string  `cbor:"metadata,omitempty"`
}

// CheckpointMeta contains training state for checkpoint files.
type CheckpointMeta struct {
	Epoch    int     `cbor:"epoch"`
	Loss     float64 `cbor:"loss"`
	Accuracy float64 `cbor:"accuracy"`
}

// LayerMeta describes one layer. Offset and Size locate the parameters of
// a linear layer in the data section and are zero for activations.
type LayerMeta struct {
	Type   string `cbor:"type"`
	In     int    `cbor:"in,omitempty"`
	Out    int    `cbor:"out,omitempty"`
	Offset int64  `cbor:"offset,omitempty"`
	Size   int64  `cbor:"size,omitempty"`
}

// linearSize returns the byte size of an in x out layer with its bias.
func linearSize(in, out int) int64 {
	return int64(in*out+out) * Float64Size
}

// archHash computes the architecture hash of a layer list from the sizes
// of its linear layers.
func archHash(layers []LayerMeta) uint64 {
	var sizes []int
	for _, l := range layers {
		if l.Type == LayerLinear {
			if len(sizes) == 0 {
				sizes = append(sizes, l.In)
			}
			sizes = append(sizes, l.Out)
		}
	}
	if len(sizes) < 2 {
		return 0
	}
	return config.ArchHash(sizes[0], sizes[1:len(sizes)-1], sizes[len(sizes)-1])
}
