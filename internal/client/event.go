package client

import (
	"fmt"
	"pduchat/internal/codec"
	"pduchat/internal/directory"
	"time"
)

type EventKind int

const (
	EventConnected EventKind = iota
	EventConnectionLost
	EventServerQuit
	EventUserList
	EventUserJoined
	EventUserLeft
	EventUserRenamed
	EventMessage
	EventDiscovery
	EventError
)

var eventNames = map[EventKind]string{
	EventConnected:      "connected",
	EventConnectionLost: "connection-lost",
	EventServerQuit:     "server-quit",
	EventUserList:       "user-list",
	EventUserJoined:     "user-joined",
	EventUserLeft:       "user-left",
	EventUserRenamed:    "user-renamed",
	EventMessage:        "message",
	EventDiscovery:      "discovery",
	EventError:          "error",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// ErrorKind tells which operation an EventError came from.
type ErrorKind int

const (
	ErrorConnect ErrorKind = iota
	ErrorSend
	ErrorDecode
	ErrorDiscovery
)

// Event is everything the manager reports to its subscriber. Only the
// fields relevant to Kind are set. Events derived from a received frame
// carry that frame.
type Event struct {
	Kind   EventKind
	Server string
	Frame  codec.Frame
	Time   time.Time

	// EventMessage
	Sender string
	Text   string

	// EventUserJoined, EventUserLeft, EventUserRenamed (new name)
	Nickname    string
	OldNickname string

	// EventUserList
	Nicknames []string

	// EventDiscovery
	Entries []directory.Entry

	// EventError, and EventConnectionLost when the socket failed
	ErrorKind ErrorKind
	Err       error
}

func frameTime(ts uint32) time.Time {
	if ts == 0 {
		return time.Now()
	}
	return time.Unix(int64(ts), 0)
}
