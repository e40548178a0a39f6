// Package codec builds and parses every frame kind of the chat and directory
// protocols, including the compressed and encrypted envelopes nested inside
// MESSAGE frames.
package codec

import (
	"errors"
	"pduchat/internal/pdu"
)

var (
	ErrChecksum      = errors.New("codec: checksum mismatch")
	ErrTruncated     = errors.New("codec: frame truncated")
	ErrWrongOp       = errors.New("codec: unexpected operation code")
	ErrFieldOverflow = errors.New("codec: field value out of range")
	ErrPayloadKind   = errors.New("codec: unknown payload kind")
)

// PayloadKind tells how the payload of a MESSAGE frame is wrapped.
type PayloadKind uint8

const (
	KindText                PayloadKind = 0
	KindCompressed          PayloadKind = 1
	KindEncrypted           PayloadKind = 2
	KindCompressedEncrypted PayloadKind = 3
)

func (k PayloadKind) String() string {
	switch k {
	case KindText:
		return "TEXT"
	case KindCompressed:
		return "COMPRESSED"
	case KindEncrypted:
		return "ENCRYPTED"
	case KindCompressedEncrypted:
		return "COMPRESSED_ENCRYPTED"
	}
	return "UNKNOWN"
}

// Frame is a decoded PDU.
type Frame interface {
	Op() pdu.Op
}

type DirectoryQuery struct{}

// DirectoryReply is one SLIST datagram. Count is the advertised total, which
// may exceed len(Records) when the list spans several datagrams.
type DirectoryReply struct {
	Sequence uint8
	Count    uint16
	Records  []DirectoryRecord
}

type DirectoryRecord struct {
	Addr    [4]byte
	Port    uint16
	Clients uint8
	Name    string
}

type Join struct {
	Nickname string
}

type ChangeNick struct {
	Nickname string
}

type Quit struct{}

// Message is the outer MESSAGE envelope. Payload holds the raw bytes for
// Kind: plain text for KindText, an encoded inner envelope otherwise.
type Message struct {
	Kind      PayloadKind
	Timestamp uint32
	Sender    string
	Payload   []byte
}

type UserJoined struct {
	Nickname  string
	Timestamp uint32
}

type UserLeft struct {
	Nickname  string
	Timestamp uint32
}

type UserRenamed struct {
	OldNickname string
	NewNickname string
	Timestamp   uint32
}

type NickList struct {
	Nicknames []string
}

// Unknown stands for any operation code with no chat layout, such as the
// directory and error codes arriving on a chat connection.
type Unknown struct {
	Code pdu.Op
}

func (DirectoryQuery) Op() pdu.Op { return pdu.OpGetList }
func (DirectoryReply) Op() pdu.Op { return pdu.OpSList }
func (Join) Op() pdu.Op           { return pdu.OpJoin }
func (ChangeNick) Op() pdu.Op     { return pdu.OpChNick }
func (Quit) Op() pdu.Op           { return pdu.OpQuit }
func (Message) Op() pdu.Op        { return pdu.OpMessage }
func (UserJoined) Op() pdu.Op     { return pdu.OpUJoin }
func (UserLeft) Op() pdu.Op       { return pdu.OpULeave }
func (UserRenamed) Op() pdu.Op    { return pdu.OpUCNick }
func (NickList) Op() pdu.Op       { return pdu.OpNicks }
func (u Unknown) Op() pdu.Op      { return u.Code }
