package buffer

import (
	"sync"
)

// MaxDatagram is the largest UDP payload over IPv4.
const MaxDatagram = 65507

var DPool = sync.Pool{
	New: func() any {
		b := make([]byte, MaxDatagram)
		return &b
	},
}

// GetDatagram returns a pooled buffer able to hold any UDP datagram.
func GetDatagram() *[]byte {
	return DPool.Get().(*[]byte)
}

func PutDatagram(b *[]byte) {
	if cap(*b) < MaxDatagram {
		return
	}
	*b = (*b)[:MaxDatagram]
	DPool.Put(b)
}
