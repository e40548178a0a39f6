package codec

import (
	"fmt"
	"pduchat/internal/pdu"
	"pduchat/internal/pkg/checksum"
)

// Decode parses one complete frame. Codes without a chat layout decode to
// Unknown rather than failing, so stray directory or error codes on a chat
// connection never end the session.
func Decode(b []byte) (Frame, error) {
	if len(b) == 0 {
		return nil, ErrTruncated
	}
	switch op := pdu.Op(b[0]); op {
	case pdu.OpMessage:
		return DecodeMessage(b)
	case pdu.OpQuit:
		return Quit{}, nil
	case pdu.OpJoin:
		return DecodeJoin(b)
	case pdu.OpChNick:
		return DecodeChangeNick(b)
	case pdu.OpUJoin:
		return DecodeUserJoined(b)
	case pdu.OpULeave:
		return DecodeUserLeft(b)
	case pdu.OpUCNick:
		return DecodeUserRenamed(b)
	case pdu.OpNicks:
		return DecodeNickList(b)
	default:
		return Unknown{Code: op}, nil
	}
}

func DecodeJoin(b []byte) (Join, error) {
	nick, err := decodeNickRequest(pdu.OpJoin, b)
	if err != nil {
		return Join{}, err
	}
	return Join{Nickname: nick}, nil
}

func DecodeChangeNick(b []byte) (ChangeNick, error) {
	nick, err := decodeNickRequest(pdu.OpChNick, b)
	if err != nil {
		return ChangeNick{}, err
	}
	return ChangeNick{Nickname: nick}, nil
}

func decodeNickRequest(op pdu.Op, b []byte) (string, error) {
	r := newFrameReader(b)
	r.expect(op)
	n := int(r.byte(1))
	nick := r.bytes(4, n)
	if r.err != nil {
		return "", r.err
	}
	return string(nick), nil
}

// DecodeMessage validates the checksum over the whole frame and splits out
// the payload and sender. The sender may be followed by zero padding.
func DecodeMessage(b []byte) (Message, error) {
	r := newFrameReader(b)
	r.expect(pdu.OpMessage)
	kind := PayloadKind(r.byte(1))
	senderLen := int(r.byte(2))
	payloadLen := int(r.short(4))
	ts := r.int(8)
	payload := r.bytes(12, payloadLen)
	sender := r.bytes(12+pdu.Pad(payloadLen), senderLen)
	if r.err != nil {
		return Message{}, r.err
	}
	if !checksum.Valid(b) {
		return Message{}, fmt.Errorf("%w: MESSAGE from %q", ErrChecksum, sender)
	}
	return Message{
		Kind:      kind,
		Timestamp: ts,
		Sender:    string(sender),
		Payload:   payload,
	}, nil
}

func DecodeUserJoined(b []byte) (UserJoined, error) {
	nick, ts, err := decodeUserEvent(pdu.OpUJoin, b)
	if err != nil {
		return UserJoined{}, err
	}
	return UserJoined{Nickname: nick, Timestamp: ts}, nil
}

func DecodeUserLeft(b []byte) (UserLeft, error) {
	nick, ts, err := decodeUserEvent(pdu.OpULeave, b)
	if err != nil {
		return UserLeft{}, err
	}
	return UserLeft{Nickname: nick, Timestamp: ts}, nil
}

func decodeUserEvent(op pdu.Op, b []byte) (string, uint32, error) {
	r := newFrameReader(b)
	r.expect(op)
	n := int(r.byte(1))
	ts := r.int(4)
	nick := r.bytes(8, n)
	if r.err != nil {
		return "", 0, r.err
	}
	return string(nick), ts, nil
}

func DecodeUserRenamed(b []byte) (UserRenamed, error) {
	r := newFrameReader(b)
	r.expect(pdu.OpUCNick)
	oldLen := int(r.byte(1))
	newLen := int(r.byte(2))
	ts := r.int(4)
	oldNick := r.bytes(8, oldLen)
	newNick := r.bytes(8+pdu.Pad(oldLen), newLen)
	if r.err != nil {
		return UserRenamed{}, r.err
	}
	return UserRenamed{
		OldNickname: string(oldNick),
		NewNickname: string(newNick),
		Timestamp:   ts,
	}, nil
}

// DecodeNickList scans the advertised region byte by byte: runs of non-zero
// bytes are names, zero bytes separate them. A name running up to the end
// of the region is kept.
func DecodeNickList(b []byte) (NickList, error) {
	r := newFrameReader(b)
	r.expect(pdu.OpNicks)
	total := int(r.short(2))
	body := r.bytes(4, total)
	if r.err != nil {
		return NickList{}, r.err
	}

	names := []string{}
	start := -1
	for i, c := range body {
		switch {
		case c != 0 && start < 0:
			start = i
		case c == 0 && start >= 0:
			names = append(names, string(body[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		names = append(names, string(body[start:]))
	}
	return NickList{Nicknames: names}, nil
}
