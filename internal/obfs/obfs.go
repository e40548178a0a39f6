package obfs

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyKey         = errors.New("obfs: key must not be empty")
	ErrUnknownAlgorithm = errors.New("obfs: unknown algorithm")
)

// Obfuscator transforms message bytes inside an encrypted envelope. Every
// implementation is length preserving and self-inverse so the envelope
// framing does not depend on the algorithm.
type Obfuscator interface {
	// Name returns the obfuscator identifier used in configuration
	Name() string

	// ID is the algorithm byte written into the envelope header
	ID() uint8

	// Wrap obfuscates plaintext
	Wrap(data []byte) ([]byte, error)

	// Unwrap reverses Wrap
	Unwrap(data []byte) ([]byte, error)
}

// NewFunc is a constructor function for creating obfuscators
type NewFunc func(key []byte) (Obfuscator, error)

// Registry maps obfuscator names to constructor functions
var Registry = map[string]NewFunc{
	"standard": NewXORObfuscator,
	"chacha20": NewChaChaObfuscator,
}

var ids = map[uint8]string{
	AlgorithmStandard: "standard",
	AlgorithmChaCha20: "chacha20",
}

const (
	AlgorithmStandard uint8 = 0
	AlgorithmChaCha20 uint8 = 1
)

// New creates an obfuscator by name with the given key
func New(name string, key []byte) (Obfuscator, error) {
	fn, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return fn(key)
}

// ByID creates the obfuscator named by an envelope algorithm byte.
func ByID(id uint8, key []byte) (Obfuscator, error) {
	name, ok := ids[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, id)
	}
	return New(name, key)
}
