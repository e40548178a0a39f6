package codec

import (
	"errors"
	"fmt"
	"pduchat/internal/pdu"
	"pduchat/internal/pkg/checksum"
)

// frameWriter fills a pre-sized buffer and keeps the first error, so encoders
// read as a flat list of field writes.
type frameWriter struct {
	b   *pdu.Buffer
	err error
}

func newFrameWriter(length int) *frameWriter {
	return &frameWriter{b: pdu.NewBuffer(length)}
}

func (w *frameWriter) byte(offset int, v uint8) {
	if w.err == nil {
		w.err = w.b.SetByte(offset, v)
	}
}

func (w *frameWriter) short(offset int, v uint16) {
	if w.err == nil {
		w.err = w.b.SetShort(offset, v)
	}
}

func (w *frameWriter) int(offset int, v uint32) {
	if w.err == nil {
		w.err = w.b.SetInt(offset, v)
	}
}

func (w *frameWriter) bytes(offset int, v []byte) {
	if w.err == nil {
		w.err = w.b.SetRange(offset, v)
	}
}

// sealChecksum stores the checksum of the whole frame at offset. The slot is
// zeroed first and the checksum is the last write.
func (w *frameWriter) sealChecksum(offset int) {
	w.byte(offset, 0)
	if w.err == nil {
		w.err = w.b.SetByte(offset, checksum.Sum(w.b.Bytes()))
	}
}

func (w *frameWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.b.Bytes(), nil
}

// frameReader mirrors frameWriter for decoding; out-of-range reads surface
// as ErrTruncated.
type frameReader struct {
	b   *pdu.Buffer
	err error
}

func newFrameReader(b []byte) *frameReader {
	return &frameReader{b: pdu.BufferFrom(b)}
}

func (r *frameReader) fail(err error) {
	if r.err != nil {
		return
	}
	if errors.Is(err, pdu.ErrOutOfRange) {
		r.err = fmt.Errorf("%w: %v", ErrTruncated, err)
		return
	}
	r.err = err
}

func (r *frameReader) byte(offset int) uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.b.Byte(offset)
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *frameReader) short(offset int) uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.b.Short(offset)
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *frameReader) int(offset int) uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.b.Int(offset)
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *frameReader) bytes(offset, length int) []byte {
	if r.err != nil {
		return nil
	}
	v, err := r.b.Range(offset, length)
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *frameReader) expect(op pdu.Op) {
	if got := pdu.Op(r.byte(0)); r.err == nil && got != op {
		r.err = fmt.Errorf("%w: got %s, want %s", ErrWrongOp, got, op)
	}
}

func checkByteField(name string, n int) error {
	if n > pdu.MaxByte {
		return fmt.Errorf("%w: %s length %d exceeds %d", ErrFieldOverflow, name, n, pdu.MaxByte)
	}
	return nil
}

func checkShortField(name string, n int) error {
	if n > pdu.MaxShort {
		return fmt.Errorf("%w: %s length %d exceeds %d", ErrFieldOverflow, name, n, pdu.MaxShort)
	}
	return nil
}
