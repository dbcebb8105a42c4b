// Package serialization reads and writes network files (.nn).
//
// A network file stores an nn.Sequential made of Linear, ReLU and Softmax
// layers:
//
//	Format Structure:
//	  [4 bytes: Magic "LAVA"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: CBOR metadata]
//	  [Parameter data: float64 LE, per linear layer weights then biases]
//
// The header records the architecture hash, the layer list with the byte
// range of every linear layer, the data size and its SHA-256 checksum, and
// optionally the configuration the network was generated from.
//
// Example usage:
//
//	// Save a network
//	if err := serialization.Save("model.nn", net, serialization.SaveOptions{Config: cfg}); err != nil {
//	    return err
//	}
//
//	// Load it back
//	file, err := serialization.Load("model.nn", serialization.LoadOptions{})
//	if err != nil {
//	    return err
//	}
//	out, err := file.Net.Forward(x)
package serialization
