package codec

import (
	"bytes"
	"fmt"
	"pduchat/internal/pdu"
)

func EncodeQuit() []byte {
	return []byte{byte(pdu.OpQuit), 0, 0, 0}
}

func EncodeJoin(nickname string) ([]byte, error) {
	return encodeNickRequest(pdu.OpJoin, nickname)
}

func EncodeChangeNick(nickname string) ([]byte, error) {
	return encodeNickRequest(pdu.OpChNick, nickname)
}

func encodeNickRequest(op pdu.Op, nickname string) ([]byte, error) {
	nick := []byte(nickname)
	if err := checkByteField("nickname", len(nick)); err != nil {
		return nil, err
	}
	w := newFrameWriter(4 + pdu.Pad(len(nick)))
	w.byte(0, uint8(op))
	w.byte(1, uint8(len(nick)))
	w.bytes(4, nick)
	return w.finish()
}

// EncodeMessage builds a MESSAGE frame. The payload is padded; the sender
// nickname is the trailing field and is written unpadded.
func EncodeMessage(m Message) ([]byte, error) {
	if m.Kind > KindCompressedEncrypted {
		return nil, fmt.Errorf("%w: %d", ErrPayloadKind, m.Kind)
	}
	sender := []byte(m.Sender)
	if err := checkByteField("sender", len(sender)); err != nil {
		return nil, err
	}
	if err := checkShortField("payload", len(m.Payload)); err != nil {
		return nil, err
	}

	w := newFrameWriter(12 + pdu.Pad(len(m.Payload)) + len(sender))
	w.byte(0, uint8(pdu.OpMessage))
	w.byte(1, uint8(m.Kind))
	w.byte(2, uint8(len(sender)))
	w.short(4, uint16(len(m.Payload)))
	w.int(8, m.Timestamp)
	w.bytes(12, m.Payload)
	w.bytes(12+pdu.Pad(len(m.Payload)), sender)
	w.sealChecksum(3)
	return w.finish()
}

func EncodeUserJoined(nickname string, timestamp uint32) ([]byte, error) {
	return encodeUserEvent(pdu.OpUJoin, nickname, timestamp)
}

func EncodeUserLeft(nickname string, timestamp uint32) ([]byte, error) {
	return encodeUserEvent(pdu.OpULeave, nickname, timestamp)
}

func encodeUserEvent(op pdu.Op, nickname string, timestamp uint32) ([]byte, error) {
	nick := []byte(nickname)
	if err := checkByteField("nickname", len(nick)); err != nil {
		return nil, err
	}
	w := newFrameWriter(8 + pdu.Pad(len(nick)))
	w.byte(0, uint8(op))
	w.byte(1, uint8(len(nick)))
	w.int(4, timestamp)
	w.bytes(8, nick)
	return w.finish()
}

func EncodeUserRenamed(oldNick, newNick string, timestamp uint32) ([]byte, error) {
	o, n := []byte(oldNick), []byte(newNick)
	if err := checkByteField("old nickname", len(o)); err != nil {
		return nil, err
	}
	if err := checkByteField("new nickname", len(n)); err != nil {
		return nil, err
	}
	w := newFrameWriter(8 + pdu.Pad(len(o), len(n)))
	w.byte(0, uint8(pdu.OpUCNick))
	w.byte(1, uint8(len(o)))
	w.byte(2, uint8(len(n)))
	w.int(4, timestamp)
	w.bytes(8, o)
	w.bytes(8+pdu.Pad(len(o)), n)
	return w.finish()
}

// EncodeNickList writes each nickname followed by a zero byte.
func EncodeNickList(nicknames []string) ([]byte, error) {
	var body bytes.Buffer
	for _, nick := range nicknames {
		if nick == "" || bytes.IndexByte([]byte(nick), 0) >= 0 {
			return nil, fmt.Errorf("%w: nickname %q cannot be listed", ErrFieldOverflow, nick)
		}
		body.WriteString(nick)
		body.WriteByte(0)
	}
	if err := checkShortField("nickname list", body.Len()); err != nil {
		return nil, err
	}
	w := newFrameWriter(4 + pdu.Pad(body.Len()))
	w.byte(0, uint8(pdu.OpNicks))
	w.short(2, uint16(body.Len()))
	w.bytes(4, body.Bytes())
	return w.finish()
}
