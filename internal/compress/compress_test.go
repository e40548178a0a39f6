package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("hello")},
		{"repetitive", bytes.Repeat([]byte("abcd"), 1000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, err := Compress(tt.in)
			require.NoError(t, err)

			out, err := Decompress(z, len(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.in, out)
		})
	}
}

// TestDecompressExactLength tests that only the declared number of bytes is
// produced and that a longer declaration is reported as corruption
func TestDecompressExactLength(t *testing.T) {
	z, err := Compress([]byte("hello world"))
	require.NoError(t, err)

	out, err := Decompress(z, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), out)

	_, err = Decompress(z, 64)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decompress(z, -1)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecompressGarbage(t *testing.T) {
	_, err := Decompress([]byte("definitely not gzip"), 4)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestByID(t *testing.T) {
	c, err := ByID(AlgorithmGZIP)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmGZIP, c.ID())

	_, err = ByID(7)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
