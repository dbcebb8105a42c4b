package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrCorruptedFile      = errors.New("corrupted network file")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrUnsupportedLayer   = errors.New("unsupported layer")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "layer_chain", "out_of_bounds")
	Layer   int    // Index of the layer involved, or -1
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Layer >= 0 {
		return fmt.Sprintf("%s: layer %d: %s", e.Type, e.Layer, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap lets errors.Is match ErrCorruptedFile.
func (e *ValidationError) Unwrap() error {
	return ErrCorruptedFile
}
