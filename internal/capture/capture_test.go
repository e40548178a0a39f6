package capture

import (
	"bytes"
	"net"
	"path/filepath"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTCP(t *testing.T) {
	var out bytes.Buffer
	r, err := New(&out, 0)
	require.NoError(t, err)

	local := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}
	remote := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 2), Port: 1234}

	require.NoError(t, r.Record(local, remote, false, []byte{12, 3, 0, 0, 'b', 'o', 'b', 0}))
	require.NoError(t, r.Record(local, remote, true, []byte{11, 0, 0, 0}))

	pr, err := pcapgo.NewReader(&out)
	require.NoError(t, err)
	assert.Equal(t, layers.LinkTypeRaw, pr.LinkType())

	data, _, err := pr.ReadPacketData()
	require.NoError(t, err)
	p := gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default)
	ip, ok := p.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	require.True(t, ok)
	assert.True(t, ip.SrcIP.Equal(local.IP))
	tcp, ok := p.Layer(layers.LayerTypeTCP).(*layers.TCP)
	require.True(t, ok)
	assert.Equal(t, layers.TCPPort(1234), tcp.DstPort)
	assert.Equal(t, uint32(0), tcp.Seq)
	assert.Equal(t, []byte{12, 3, 0, 0, 'b', 'o', 'b', 0}, tcp.Payload)

	data, _, err = pr.ReadPacketData()
	require.NoError(t, err)
	p = gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default)
	tcp, ok = p.Layer(layers.LayerTypeTCP).(*layers.TCP)
	require.True(t, ok)
	assert.Equal(t, layers.TCPPort(1234), tcp.SrcPort)
	assert.Equal(t, []byte{11, 0, 0, 0}, tcp.Payload)
}

func TestRecordUDPAndSequence(t *testing.T) {
	var out bytes.Buffer
	r, err := New(&out, 0)
	require.NoError(t, err)

	local := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 40000}
	remote := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 9), Port: 1337}
	require.NoError(t, r.Record(local, remote, false, []byte{3, 0, 0, 0}))

	pr, err := pcapgo.NewReader(&out)
	require.NoError(t, err)
	data, _, err := pr.ReadPacketData()
	require.NoError(t, err)
	p := gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default)
	udp, ok := p.Layer(layers.LayerTypeUDP).(*layers.UDP)
	require.True(t, ok)
	assert.Equal(t, layers.UDPPort(1337), udp.DstPort)
	assert.Equal(t, []byte{3, 0, 0, 0}, udp.Payload)
}

func TestTCPSequenceAdvances(t *testing.T) {
	var out bytes.Buffer
	r, err := New(&out, 0)
	require.NoError(t, err)

	local := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1}
	remote := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2}
	require.NoError(t, r.Record(local, remote, false, make([]byte, 8)))
	require.NoError(t, r.Record(local, remote, false, make([]byte, 4)))

	pr, err := pcapgo.NewReader(&out)
	require.NoError(t, err)
	_, _, err = pr.ReadPacketData()
	require.NoError(t, err)
	data, _, err := pr.ReadPacketData()
	require.NoError(t, err)
	p := gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default)
	tcp := p.Layer(layers.LayerTypeTCP).(*layers.TCP)
	assert.Equal(t, uint32(8), tcp.Seq)
}

func TestRecordSkipsUnknownAddrs(t *testing.T) {
	var out bytes.Buffer
	r, err := New(&out, 0)
	require.NoError(t, err)
	headerLen := out.Len()

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	require.NoError(t, r.Record(a.LocalAddr(), a.RemoteAddr(), false, []byte{1, 2, 3, 4}))
	assert.Equal(t, headerLen, out.Len())
}

func TestSnaplenTruncates(t *testing.T) {
	var out bytes.Buffer
	r, err := New(&out, 48)
	require.NoError(t, err)

	local := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1}
	remote := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2}
	require.NoError(t, r.Record(local, remote, false, make([]byte, 100)))

	pr, err := pcapgo.NewReader(&out)
	require.NoError(t, err)
	data, ci, err := pr.ReadPacketData()
	require.NoError(t, err)
	assert.Len(t, data, 48)
	assert.Equal(t, 48, ci.CaptureLength)
	assert.Equal(t, 20+20+100, ci.Length)
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.pcap")
	r, err := Create(path, 0)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.FileExists(t, path)
}
