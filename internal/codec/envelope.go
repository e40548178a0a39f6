package codec

import (
	"fmt"
	"pduchat/internal/compress"
	"pduchat/internal/obfs"
	"pduchat/internal/pdu"
	"pduchat/internal/pkg/checksum"
)

const envelopeHeader = 8

// EncodeCompressed wraps plain in a COMPRESSED inner envelope.
func EncodeCompressed(algorithm uint8, plain []byte) ([]byte, error) {
	c, err := compress.ByID(algorithm)
	if err != nil {
		return nil, err
	}
	if err := checkShortField("original", len(plain)); err != nil {
		return nil, err
	}
	z, err := c.Compress(plain)
	if err != nil {
		return nil, err
	}
	if err := checkShortField("compressed", len(z)); err != nil {
		return nil, err
	}

	w := newFrameWriter(envelopeHeader + pdu.Pad(len(z)))
	w.byte(0, algorithm)
	w.short(2, uint16(len(z)))
	w.short(4, uint16(len(plain)))
	w.bytes(envelopeHeader, z)
	w.sealChecksum(1)
	return w.finish()
}

func DecodeCompressed(env []byte) ([]byte, error) {
	r := newFrameReader(env)
	algorithm := r.byte(0)
	zLen := int(r.short(2))
	origLen := int(r.short(4))
	z := r.bytes(envelopeHeader, zLen)
	if r.err != nil {
		return nil, r.err
	}
	if !checksum.Valid(env) {
		return nil, fmt.Errorf("%w: compressed envelope", ErrChecksum)
	}
	c, err := compress.ByID(algorithm)
	if err != nil {
		return nil, err
	}
	return c.Decompress(z, origLen)
}

// EncodeEncrypted wraps plain in an ENCRYPTED inner envelope. The length is
// written twice, at 2-3 and 4-5, to stay readable by existing peers.
func EncodeEncrypted(o obfs.Obfuscator, plain []byte) ([]byte, error) {
	ct, err := o.Wrap(plain)
	if err != nil {
		return nil, err
	}
	if err := checkShortField("ciphertext", len(ct)); err != nil {
		return nil, err
	}

	w := newFrameWriter(envelopeHeader + pdu.Pad(len(ct)))
	w.byte(0, o.ID())
	w.short(2, uint16(len(ct)))
	w.short(4, uint16(len(ct)))
	w.bytes(envelopeHeader, ct)
	w.sealChecksum(1)
	return w.finish()
}

func DecodeEncrypted(env []byte, key []byte) ([]byte, error) {
	r := newFrameReader(env)
	algorithm := r.byte(0)
	n := int(r.short(2))
	ct := r.bytes(envelopeHeader, n)
	if r.err != nil {
		return nil, r.err
	}
	if !checksum.Valid(env) {
		return nil, fmt.Errorf("%w: encrypted envelope", ErrChecksum)
	}
	o, err := obfs.ByID(algorithm, key)
	if err != nil {
		return nil, err
	}
	return o.Unwrap(ct)
}

// SealOptions selects the payload wrapping for an outgoing message.
type SealOptions struct {
	Compress    bool
	Encrypt     bool
	Key         []byte
	Cipher      string // obfuscator name; empty means "standard"
	Compression uint8
}

// Seal builds the outgoing MESSAGE for text. Compression happens before
// encryption. The sender and timestamp are left for the server to fill.
func Seal(text []byte, opts SealOptions) (Message, error) {
	payload := text
	kind := KindText

	if opts.Compress {
		env, err := EncodeCompressed(opts.Compression, payload)
		if err != nil {
			return Message{}, err
		}
		payload, kind = env, KindCompressed
	}
	if opts.Encrypt {
		name := opts.Cipher
		if name == "" {
			name = "standard"
		}
		o, err := obfs.New(name, opts.Key)
		if err != nil {
			return Message{}, err
		}
		env, err := EncodeEncrypted(o, payload)
		if err != nil {
			return Message{}, err
		}
		payload = env
		if kind == KindCompressed {
			kind = KindCompressedEncrypted
		} else {
			kind = KindEncrypted
		}
	}
	if err := checkShortField("payload", len(payload)); err != nil {
		return Message{}, err
	}
	return Message{Kind: kind, Payload: payload}, nil
}

// Open returns the plain text carried by m, decrypting with key where the
// payload kind needs it.
func Open(m Message, key []byte) ([]byte, error) {
	switch m.Kind {
	case KindText:
		return m.Payload, nil
	case KindCompressed:
		return DecodeCompressed(m.Payload)
	case KindEncrypted:
		return DecodeEncrypted(m.Payload, key)
	case KindCompressedEncrypted:
		inner, err := DecodeEncrypted(m.Payload, key)
		if err != nil {
			return nil, err
		}
		return DecodeCompressed(inner)
	}
	return nil, fmt.Errorf("%w: %d", ErrPayloadKind, m.Kind)
}
