package obfs

import (
	"crypto/sha256"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/pbkdf2"
)

const (
	chachaSalt       = "pduchat-obfs"
	chachaIterations = 100_000
)

// ChaChaObfuscator XORs data with a ChaCha20 keystream derived from the
// passphrase. The nonce is fixed, so it is as self-inverse as the standard
// XOR and only opaque to peers that do not share the passphrase. Peers
// using only the standard cipher cannot read it.
type ChaChaObfuscator struct {
	key []byte
}

func NewChaChaObfuscator(key []byte) (Obfuscator, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	derived := pbkdf2.Key(key, []byte(chachaSalt), chachaIterations, chacha20.KeySize, sha256.New)
	return &ChaChaObfuscator{key: derived}, nil
}

func (o *ChaChaObfuscator) Name() string {
	return "chacha20"
}

func (o *ChaChaObfuscator) ID() uint8 {
	return AlgorithmChaCha20
}

func (o *ChaChaObfuscator) Wrap(data []byte) ([]byte, error) {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(o.key, nonce[:])
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	c.XORKeyStream(out, data)
	return out, nil
}

func (o *ChaChaObfuscator) Unwrap(data []byte) ([]byte, error) {
	return o.Wrap(data)
}
