package obfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformKnownVector(t *testing.T) {
	got, err := Transform([]byte{0x00, 0xFF, 0x0F, 0xF0}, []byte{0xAA, 0x55})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xAA, 0xA5, 0xA5}, got)
}

func TestTransformEmptyKey(t *testing.T) {
	_, err := Transform([]byte("hello"), nil)
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewXORObfuscator([]byte{})
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewChaChaObfuscator(nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

// TestRoundTrip tests that every registered obfuscator is length preserving
// and self-inverse
func TestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		[]byte("a"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		make([]byte, 1024),
	}
	for name := range Registry {
		t.Run(name, func(t *testing.T) {
			o, err := New(name, []byte("foobar"))
			require.NoError(t, err)
			assert.Equal(t, name, o.Name())

			for _, in := range inputs {
				wrapped, err := o.Wrap(in)
				require.NoError(t, err)
				assert.Len(t, wrapped, len(in))

				back, err := o.Unwrap(wrapped)
				require.NoError(t, err)
				assert.Equal(t, in, back)
			}
		})
	}
}

func TestXORDoesNotAliasInput(t *testing.T) {
	in := []byte("hello")
	o, err := NewXORObfuscator([]byte("k"))
	require.NoError(t, err)

	out, err := o.Wrap(in)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), in)
	assert.NotEqual(t, in, out)
}

func TestByID(t *testing.T) {
	o, err := ByID(AlgorithmStandard, []byte("foobar"))
	require.NoError(t, err)
	assert.Equal(t, AlgorithmStandard, o.ID())

	o, err = ByID(AlgorithmChaCha20, []byte("foobar"))
	require.NoError(t, err)
	assert.Equal(t, AlgorithmChaCha20, o.ID())

	_, err = ByID(9, []byte("foobar"))
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	_, err = New("rot13", []byte("foobar"))
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestChaChaKeySeparation(t *testing.T) {
	a, err := NewChaChaObfuscator([]byte("foobar"))
	require.NoError(t, err)
	b, err := NewChaChaObfuscator([]byte("foobaz"))
	require.NoError(t, err)

	msg := []byte("secret message")
	wa, err := a.Wrap(msg)
	require.NoError(t, err)
	wb, err := b.Wrap(msg)
	require.NoError(t, err)
	assert.NotEqual(t, wa, wb)
}
