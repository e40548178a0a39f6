package directory

import (
	"fmt"
	"net/netip"
	"pduchat/internal/codec"
	"pduchat/internal/pdu"
	"strconv"
)

// Entry is one chat server advertised by the directory.
type Entry struct {
	Addr    [4]byte
	Port    uint16
	Name    string
	Clients uint8
}

// Address is the host:port to dial.
func (e Entry) Address() string {
	return netip.AddrPortFrom(netip.AddrFrom4(e.Addr), e.Port).String()
}

func (e Entry) Display() string {
	return e.Name + ", " + strconv.Itoa(int(e.Clients)) + " connected."
}

// Assembler rebuilds a server list split over several SLIST datagrams.
//
// The first datagram fixes the advertised total. Every later datagram must
// carry an unseen sequence number; repeats are dropped. With legacy set,
// later datagrams are read the way older name servers lay them
// out: sequence number at offset 2 and records from offset 0.
type Assembler struct {
	legacy  bool
	started bool
	total   int
	seen    map[uint8]struct{}
	entries []Entry
}

func NewAssembler(legacy bool) *Assembler {
	return &Assembler{legacy: legacy, seen: make(map[uint8]struct{})}
}

// Add consumes one datagram. It reports whether the datagram contributed
// to the list; a repeated sequence number is not an error.
func (a *Assembler) Add(datagram []byte) (bool, error) {
	if !a.started {
		reply, err := codec.DecodeDirectoryReply(datagram)
		if err != nil && len(reply.Records) == 0 {
			return false, err
		}
		a.started = true
		a.total = int(reply.Count)
		a.seen[reply.Sequence] = struct{}{}
		a.append(reply.Records)
		return true, err
	}

	seqOff, recOff := 1, 4
	if a.legacy {
		seqOff, recOff = 2, 0
	} else if len(datagram) == 0 || pdu.Op(datagram[0]) != pdu.OpSList {
		return false, fmt.Errorf("%w: directory datagram", codec.ErrWrongOp)
	}
	if len(datagram) <= seqOff {
		return false, codec.ErrTruncated
	}
	seq := datagram[seqOff]
	if _, dup := a.seen[seq]; dup {
		return false, nil
	}
	a.seen[seq] = struct{}{}

	records, err := codec.DecodeDirectoryRecords(datagram, recOff, a.total-len(a.entries))
	a.append(records)
	return true, err
}

func (a *Assembler) append(records []codec.DirectoryRecord) {
	for _, r := range records {
		if len(a.entries) >= a.total {
			return
		}
		a.entries = append(a.entries, Entry{Addr: r.Addr, Port: r.Port, Name: r.Name, Clients: r.Clients})
	}
}

func (a *Assembler) Started() bool {
	return a.started
}

// Complete reports whether the advertised number of entries has arrived.
func (a *Assembler) Complete() bool {
	return a.started && len(a.entries) >= a.total
}

func (a *Assembler) Total() int {
	return a.total
}

func (a *Assembler) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}
