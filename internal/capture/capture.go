// Package capture records protocol frames into a pcap file. The frames are
// the application payload seen on a socket; the IP and transport headers
// around them are synthesized so the file opens in ordinary packet tools.
package capture

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
)

const DefaultSnaplen = 65535

type Recorder struct {
	mu      sync.Mutex
	w       *pcapgo.Writer
	closer  io.Closer
	snaplen int
	seq     map[string]uint32
	now     func() time.Time
}

// Create opens path for writing and emits the pcap file header.
func Create(path string, snaplen int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture file %s: %w", path, err)
	}
	r, err := New(f, snaplen)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// New writes a pcap header to w. Packets are stored with raw IP link type.
func New(w io.Writer, snaplen int) (*Recorder, error) {
	if snaplen <= 0 {
		snaplen = DefaultSnaplen
	}
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(uint32(snaplen), layers.LinkTypeRaw); err != nil {
		return nil, fmt.Errorf("failed to write capture header: %w", err)
	}
	return &Recorder{
		w:       pw,
		snaplen: snaplen,
		seq:     make(map[string]uint32),
		now:     time.Now,
	}, nil
}

// Record stores one payload exchanged between local and remote. inbound
// frames are written with remote as the source. The transport layer follows
// the address type; other address types are skipped.
func (r *Recorder) Record(local, remote net.Addr, inbound bool, payload []byte) error {
	src, dst := local, remote
	if inbound {
		src, dst = remote, local
	}

	srcIP, srcPort, ok := endpoint(src)
	if !ok {
		return nil
	}
	dstIP, dstPort, ok := endpoint(dst)
	if !ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, isTCP := src.(*net.TCPAddr)
	proto := layers.IPProtocolUDP
	if isTCP {
		proto = layers.IPProtocolTCP
	}
	ip := networkLayer(srcIP, dstIP, proto)

	var transport gopacket.SerializableLayer
	if isTCP {
		flow := src.String() + ">" + dst.String()
		seq := r.seq[flow]
		r.seq[flow] = seq + uint32(len(payload))
		tcp := &layers.TCP{
			SrcPort: layers.TCPPort(srcPort),
			DstPort: layers.TCPPort(dstPort),
			Seq:     seq,
			PSH:     true,
			ACK:     true,
			Window:  65535,
		}
		if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
			return err
		}
		transport = tcp
	} else {
		udp := &layers.UDP{
			SrcPort: layers.UDPPort(srcPort),
			DstPort: layers.UDPPort(dstPort),
		}
		if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
			return err
		}
		transport = udp
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, ip, transport, gopacket.Payload(payload)); err != nil {
		return fmt.Errorf("failed to serialize captured frame: %w", err)
	}

	data := buf.Bytes()
	ci := gopacket.CaptureInfo{
		Timestamp:     r.now(),
		Length:        len(data),
		CaptureLength: min(len(data), r.snaplen),
	}
	return r.w.WritePacket(ci, data[:ci.CaptureLength])
}

func (r *Recorder) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func endpoint(a net.Addr) (net.IP, int, bool) {
	switch v := a.(type) {
	case *net.TCPAddr:
		return v.IP, v.Port, v.IP != nil
	case *net.UDPAddr:
		return v.IP, v.Port, v.IP != nil
	}
	return nil, 0, false
}

type ipLayer interface {
	gopacket.SerializableLayer
	gopacket.NetworkLayer
}

func networkLayer(src, dst net.IP, proto layers.IPProtocol) ipLayer {
	if s4, d4 := src.To4(), dst.To4(); s4 != nil && d4 != nil {
		return &layers.IPv4{
			Version:  4,
			IHL:      5,
			TTL:      64,
			Flags:    layers.IPv4DontFragment,
			Protocol: proto,
			SrcIP:    s4,
			DstIP:    d4,
		}
	}
	return &layers.IPv6{
		Version:    6,
		HopLimit:   64,
		NextHeader: proto,
		SrcIP:      src.To16(),
		DstIP:      dst.To16(),
	}
}
