package session

import (
	"context"
	"errors"
	"io"
	"net"
	"pduchat/internal/codec"
	"pduchat/internal/conf"
	"pduchat/internal/pdu"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pair returns a session dialed to a loopback listener and the server side
// of the connection.
func pair(t *testing.T, opts ...Option) (*Session, net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	s, err := Dial(context.Background(), newDirectDialer(), ln.Addr().String(), time.Second, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	select {
	case c := <-accepted:
		t.Cleanup(func() { c.Close() })
		return s, c
	case <-time.After(time.Second):
		t.Fatal("listener did not accept")
	}
	return nil, nil
}

func padded(b []byte) []byte {
	return append(b, make([]byte, pdu.Pad(len(b))-len(b))...)
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(context.Background(), newDirectDialer(), addr, time.Second)
	var ce *ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, addr, ce.Addr)
}

type stallDialer struct{}

func (stallDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDialTimeout(t *testing.T) {
	start := time.Now()
	_, err := Dial(context.Background(), stallDialer{}, "192.0.2.1:1", 50*time.Millisecond)
	var ce *ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSendReceive(t *testing.T) {
	s, srv := pair(t)
	assert.Equal(t, Open, s.State())

	join, err := codec.EncodeJoin("alice")
	require.NoError(t, err)
	require.NoError(t, s.Send(join))

	got, err := codec.ReadFrame(srv)
	require.NoError(t, err)
	assert.Equal(t, join, got)

	msg, err := codec.EncodeMessage(codec.Message{Kind: codec.KindText, Timestamp: 5, Sender: "bob", Payload: []byte("hi")})
	require.NoError(t, err)
	uj, err := codec.EncodeUserJoined("carol", 6)
	require.NoError(t, err)
	_, err = srv.Write(append(padded(msg), uj...))
	require.NoError(t, err)

	f, err := s.Receive()
	require.NoError(t, err)
	m, ok := f.(codec.Message)
	require.True(t, ok)
	assert.Equal(t, "bob", m.Sender)
	assert.Equal(t, []byte("hi"), m.Payload)

	f, err = s.Receive()
	require.NoError(t, err)
	assert.Equal(t, codec.UserJoined{Nickname: "carol", Timestamp: 6}, f)
}

func TestReceiveEOFCloses(t *testing.T) {
	s, srv := pair(t)
	require.NoError(t, srv.Close())

	f, err := s.Receive()
	assert.Nil(t, f)
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, s.IsClosed())
}

// TestReceiveCorruptStaysOpen tests that a checksum failure drops the frame
// but keeps the stream usable
func TestReceiveCorruptStaysOpen(t *testing.T) {
	s, srv := pair(t)

	bad, err := codec.EncodeMessage(codec.Message{Kind: codec.KindText, Payload: []byte("oops")})
	require.NoError(t, err)
	bad[12] ^= 0x01
	_, err = srv.Write(append(bad, codec.EncodeQuit()...))
	require.NoError(t, err)

	_, err = s.Receive()
	assert.ErrorIs(t, err, codec.ErrChecksum)
	assert.False(t, s.IsClosed())

	f, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, codec.Quit{}, f)
}

func TestReceiveUnknownCode(t *testing.T) {
	s, srv := pair(t)
	_, err := srv.Write([]byte{byte(pdu.OpNotReg), 0, 0, 0, byte(pdu.OpQuit), 0, 0, 0})
	require.NoError(t, err)

	f, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, codec.Unknown{Code: pdu.OpNotReg}, f)

	f, err = s.Receive()
	require.NoError(t, err)
	assert.Equal(t, codec.Quit{}, f)
}

func TestCloseIdempotent(t *testing.T) {
	s, _ := pair(t)
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.True(t, s.IsClosed())
	assert.ErrorIs(t, s.Send(codec.EncodeQuit()), ErrClosed)

	_, err := s.Receive()
	assert.Error(t, err)
}

// TestConcurrentSends tests that frames from many goroutines arrive whole
func TestConcurrentSends(t *testing.T) {
	s, srv := pair(t)
	const n = 50

	nicks := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			b, _ := codec.EncodeJoin(nicks[i%len(nicks)])
			assert.NoError(t, s.Send(b))
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range n {
			raw, err := codec.ReadFrame(srv)
			if !assert.NoError(t, err) {
				return
			}
			j, err := codec.DecodeJoin(raw)
			assert.NoError(t, err)
			assert.Contains(t, nicks, j.Nickname)
		}
	}()
	wg.Wait()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not read every frame")
	}
}

type countingRecorder struct {
	mu       sync.Mutex
	inbound  int
	outbound int
}

func (r *countingRecorder) Record(local, remote net.Addr, inbound bool, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inbound {
		r.inbound++
	} else {
		r.outbound++
	}
	return nil
}

func TestRecorderSeesFrames(t *testing.T) {
	rec := &countingRecorder{}
	s, srv := pair(t, WithRecorder(rec))

	require.NoError(t, s.Send(codec.EncodeQuit()))
	_, err := srv.Write(codec.EncodeQuit())
	require.NoError(t, err)
	_, err = s.Receive()
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, 1, rec.inbound)
	assert.Equal(t, 1, rec.outbound)
}

func TestNewDialer(t *testing.T) {
	d, err := NewDialer(nil)
	require.NoError(t, err)
	assert.IsType(t, &directDialer{}, d)

	d, err = NewDialer(&conf.Outbound{Type: "socks5", Addr: "127.0.0.1:1080"})
	require.NoError(t, err)
	assert.IsType(t, &socks5Dialer{}, d)

	_, err = NewDialer(&conf.Outbound{Type: "carrier-pigeon"})
	assert.Error(t, err)
}
