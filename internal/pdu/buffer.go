package pdu

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("pdu: access out of range")

// Buffer is fixed-capacity frame storage with big-endian unsigned accessors.
// Writers never resize; callers Grow first.
type Buffer struct {
	raw []byte
}

func NewBuffer(length int) *Buffer {
	if length < 0 {
		length = 0
	}
	return &Buffer{raw: make([]byte, length)}
}

// BufferFrom copies b into a new Buffer.
func BufferFrom(b []byte) *Buffer {
	raw := make([]byte, len(b))
	copy(raw, b)
	return &Buffer{raw: raw}
}

func (b *Buffer) check(offset, size int) error {
	if offset < 0 || size < 0 || offset+size > len(b.raw) {
		return fmt.Errorf("%w: offset %d size %d length %d", ErrOutOfRange, offset, size, len(b.raw))
	}
	return nil
}

func (b *Buffer) Byte(offset int) (uint8, error) {
	if err := b.check(offset, 1); err != nil {
		return 0, err
	}
	return b.raw[offset], nil
}

func (b *Buffer) SetByte(offset int, v uint8) error {
	if err := b.check(offset, 1); err != nil {
		return err
	}
	b.raw[offset] = v
	return nil
}

func (b *Buffer) Short(offset int) (uint16, error) {
	if err := b.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b.raw[offset:]), nil
}

func (b *Buffer) SetShort(offset int, v uint16) error {
	if err := b.check(offset, 2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(b.raw[offset:], v)
	return nil
}

func (b *Buffer) Int(offset int) (uint32, error) {
	if err := b.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b.raw[offset:]), nil
}

func (b *Buffer) SetInt(offset int, v uint32) error {
	if err := b.check(offset, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b.raw[offset:], v)
	return nil
}

// Range returns a copy of length bytes starting at offset.
func (b *Buffer) Range(offset, length int) ([]byte, error) {
	if err := b.check(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, b.raw[offset:offset+length])
	return out, nil
}

func (b *Buffer) SetRange(offset int, src []byte) error {
	if err := b.check(offset, len(src)); err != nil {
		return err
	}
	copy(b.raw[offset:], src)
	return nil
}

// Grow extends the buffer to length, zero filling the tail. Smaller lengths
// are ignored.
func (b *Buffer) Grow(length int) {
	if length <= len(b.raw) {
		return
	}
	raw := make([]byte, length)
	copy(raw, b.raw)
	b.raw = raw
}

func (b *Buffer) Len() int {
	return len(b.raw)
}

// Bytes returns a copy of the stored bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.raw))
	copy(out, b.raw)
	return out
}
