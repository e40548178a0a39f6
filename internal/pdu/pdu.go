// Package pdu holds the primitives shared by every protocol data unit: the
// operation code namespace, the 4-byte padding rule and the frame buffer.
package pdu

import "fmt"

// Op is the leading byte of every frame. Directory and chat codes share one
// namespace.
type Op uint8

const (
	OpReg     Op = 0
	OpAck     Op = 1
	OpAlive   Op = 2
	OpGetList Op = 3
	OpSList   Op = 4

	OpMessage Op = 10
	OpQuit    Op = 11
	OpJoin    Op = 12
	OpChNick  Op = 13
	OpUJoin   Op = 16
	OpULeave  Op = 17
	OpUCNick  Op = 18
	OpNicks   Op = 19

	OpNotReg    Op = 100
	OpUnknownOp Op = 101
)

var opNames = map[Op]string{
	OpReg:       "REG",
	OpAck:       "ACK",
	OpAlive:     "ALIVE",
	OpGetList:   "GETLIST",
	OpSList:     "SLIST",
	OpMessage:   "MESSAGE",
	OpQuit:      "QUIT",
	OpJoin:      "JOIN",
	OpChNick:    "CHNICK",
	OpUJoin:     "UJOIN",
	OpULeave:    "ULEAVE",
	OpUCNick:    "UCNICK",
	OpNicks:     "NICKS",
	OpNotReg:    "NOTREG",
	OpUnknownOp: "UNKNOWNOP",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("OP(%d)", uint8(o))
}

// Pad returns the sum of each length rounded up to a multiple of 4. Lengths
// are padded independently, so Pad(3, 3) is 8, not 6 rounded to 8 by chance.
func Pad(lengths ...int) int {
	total := 0
	for _, n := range lengths {
		total += n
		if n%4 != 0 {
			total += 4 - n%4
		}
	}
	return total
}

const (
	MaxByte  = 0xFF
	MaxShort = 0xFFFF
)
