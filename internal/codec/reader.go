package codec

import (
	"encoding/binary"
	"errors"
	"io"
	"pduchat/internal/pdu"
)

// layout describes how much of a frame follows the op byte: a fixed header
// and a variable region sized from header fields.
type layout struct {
	header int
	body   func(h []byte) int
}

var layouts = map[pdu.Op]layout{
	pdu.OpMessage: {12, func(h []byte) int {
		return pdu.Pad(int(binary.BigEndian.Uint16(h[4:6])), int(h[2]))
	}},
	pdu.OpQuit:   {4, nil},
	pdu.OpJoin:   {4, padByte(1)},
	pdu.OpChNick: {4, padByte(1)},
	pdu.OpUJoin:  {8, padByte(1)},
	pdu.OpULeave: {8, padByte(1)},
	pdu.OpUCNick: {8, func(h []byte) int {
		return pdu.Pad(int(h[1]), int(h[2]))
	}},
	pdu.OpNicks: {4, func(h []byte) int {
		return pdu.Pad(int(binary.BigEndian.Uint16(h[2:4])))
	}},
}

// word covers codes with no chat layout: the header word is consumed and
// nothing else.
var word = layout{header: 4}

func padByte(off int) func(h []byte) int {
	return func(h []byte) int { return pdu.Pad(int(h[off])) }
}

// ReadFrame reads one whole frame from a chat stream. It returns io.EOF only
// when the stream ends cleanly between frames; an end inside a frame is
// io.ErrUnexpectedEOF. A MESSAGE sender is read in its padded form.
func ReadFrame(r io.Reader) ([]byte, error) {
	var op [1]byte
	if _, err := io.ReadFull(r, op[:]); err != nil {
		return nil, err
	}
	l, ok := layouts[pdu.Op(op[0])]
	if !ok {
		l = word
	}

	header := make([]byte, l.header)
	header[0] = op[0]
	if err := readRest(r, header[1:]); err != nil {
		return nil, err
	}
	if l.body == nil {
		return header, nil
	}

	buf := pdu.BufferFrom(header)
	n := l.body(header)
	body := make([]byte, n)
	if err := readRest(r, body); err != nil {
		return nil, err
	}
	buf.Grow(l.header + n)
	if err := buf.SetRange(l.header, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readRest(r io.Reader, p []byte) error {
	_, err := io.ReadFull(r, p)
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
