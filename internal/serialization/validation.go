package serialization

import (
	"fmt"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize       = 16 * 1024 * 1024
	MaxLayerCount       = 4096
	MaxDataSize   int64 = 4 << 30
)

// ValidateHeader checks that the layer list is well formed and consistent
// with the architecture hash and the data size.
func ValidateHeader(h *Header) error {
	if h.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: header says %d", ErrUnsupportedVersion, h.FormatVersion)
	}
	if err := ValidateLayers(h.Layers, h.DataSize); err != nil {
		return err
	}
	if got := archHash(h.Layers); got != h.ArchHash {
		return &ValidationError{
			Type:    "arch_hash",
			Layer:   -1,
			Details: fmt.Sprintf("layers hash to %d, header says %d", got, h.ArchHash),
		}
	}
	if h.Config != nil && h.Config.ArchHash() != h.ArchHash {
		return &ValidationError{
			Type:    "arch_hash",
			Layer:   -1,
			Details: fmt.Sprintf("config hashes to %d, header says %d", h.Config.ArchHash(), h.ArchHash),
		}
	}
	return nil
}

// ValidateLayers checks layer types, that consecutive linear layers chain
// (in of one equals out of the previous), and that parameter ranges tile
// the data section exactly.
func ValidateLayers(layers []LayerMeta, dataSize int64) error {
	if len(layers) == 0 {
		return &ValidationError{Type: "empty", Layer: -1, Details: "no layers"}
	}
	if len(layers) > MaxLayerCount {
		return &ValidationError{
			Type:    "too_many_layers",
			Layer:   -1,
			Details: fmt.Sprintf("got %d, max %d", len(layers), MaxLayerCount),
		}
	}
	if dataSize < 0 || dataSize > MaxDataSize {
		return &ValidationError{
			Type:    "data_size",
			Layer:   -1,
			Details: fmt.Sprintf("data_size %d outside [0, %d]", dataSize, MaxDataSize),
		}
	}

	var offset int64
	prevOut := -1
	for i, l := range layers {
		switch l.Type {
		case LayerReLU, LayerSoftmax:
			continue
		case LayerLinear:
		default:
			return &ValidationError{Type: "layer_type", Layer: i, Details: fmt.Sprintf("unknown type %q", l.Type)}
		}

		if l.In <= 0 || l.Out <= 0 {
			return &ValidationError{Type: "layer_size", Layer: i, Details: fmt.Sprintf("in=%d, out=%d", l.In, l.Out)}
		}
		// out*(in+1) weights must fit MaxDataSize before linearSize multiplies.
		if int64(l.In) >= MaxDataSize/Float64Size/int64(l.Out) {
			return &ValidationError{
				Type:    "layer_size",
				Layer:   i,
				Details: fmt.Sprintf("in=%d, out=%d exceeds %d bytes", l.In, l.Out, MaxDataSize),
			}
		}
		// Check for negative values (potential integer overflow attacks).
		if l.Offset < 0 || l.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Layer:   i,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", l.Offset, l.Size),
			}
		}
		if prevOut >= 0 && l.In != prevOut {
			return &ValidationError{
				Type:    "layer_chain",
				Layer:   i,
				Details: fmt.Sprintf("input %d does not match previous output %d", l.In, prevOut),
			}
		}
		if l.Offset != offset || l.Size != linearSize(l.In, l.Out) {
			return &ValidationError{
				Type:    "layer_range",
				Layer:   i,
				Details: fmt.Sprintf("offset=%d size=%d, expected offset=%d size=%d", l.Offset, l.Size, offset, linearSize(l.In, l.Out)),
			}
		}
		offset += l.Size
		prevOut = l.Out
	}

	if prevOut < 0 {
		return &ValidationError{Type: "empty", Layer: -1, Details: "no linear layers"}
	}
	if offset != dataSize {
		return &ValidationError{
			Type:    "out_of_bounds",
			Layer:   -1,
			Details: fmt.Sprintf("layers cover %d bytes, data_size %d", offset, dataSize),
		}
	}
	return nil
}
