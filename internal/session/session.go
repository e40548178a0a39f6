// Package session runs one TCP connection to a chat server: a bounded
// connect, a blocking frame reader and a serialized writer.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"pduchat/internal/codec"
	"pduchat/internal/flog"
	"sync"
	"sync/atomic"
	"time"
)

var ErrClosed = errors.New("session: closed")

type State int32

const (
	Connecting State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// ConnectionError reports a connect that timed out or was refused.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Recorder observes every frame written or read on a session.
type Recorder interface {
	Record(local, remote net.Addr, inbound bool, payload []byte) error
}

type Session struct {
	conn  net.Conn
	r     *bufio.Reader
	addr  string
	state atomic.Int32
	rec   Recorder

	wmu       sync.Mutex
	closeOnce sync.Once
}

type Option func(*Session)

func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.rec = r }
}

// Dial connects to addr through d, giving up after timeout.
func Dial(ctx context.Context, d Dialer, addr string, timeout time.Duration, opts ...Option) (*Session, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectionError{Addr: addr, Err: err}
	}
	flog.Debugf("chat session connected to %s from %s", addr, conn.LocalAddr())
	return New(conn, opts...), nil
}

// New wraps an established connection in an open session.
func New(conn net.Conn, opts ...Option) *Session {
	s := &Session{
		conn: conn,
		r:    bufio.NewReader(conn),
		addr: conn.RemoteAddr().String(),
	}
	s.state.Store(int32(Connecting))
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(int32(Open))
	return s
}

// Send writes one frame. Concurrent senders never interleave bytes. A failed
// write is returned to the caller but does not close the session; the reader
// finds out when the socket is really gone.
func (s *Session) Send(frame []byte) error {
	if s.IsClosed() {
		return ErrClosed
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if _, err := s.conn.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame to %s: %w", s.addr, err)
	}
	s.record(false, frame)
	return nil
}

// Receive blocks for the next frame. A clean end of stream returns io.EOF;
// it and any other read failure close the session. Frames that fail to
// decode are returned as errors with the session left open.
func (s *Session) Receive() (codec.Frame, error) {
	raw, err := codec.ReadFrame(s.r)
	if err != nil {
		closedByUs := s.IsClosed()
		s.Close()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if closedByUs {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("failed to read frame from %s: %w", s.addr, err)
	}
	s.record(true, raw)

	f, err := codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("dropped frame from %s: %w", s.addr, err)
	}
	return f, nil
}

func (s *Session) record(inbound bool, frame []byte) {
	if s.rec == nil {
		return
	}
	if err := s.rec.Record(s.conn.LocalAddr(), s.conn.RemoteAddr(), inbound, frame); err != nil {
		flog.Debugf("capture on %s failed: %v", s.addr, err)
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) IsClosed() bool {
	return s.State() == Closed
}

func (s *Session) Addr() string {
	return s.addr
}

// Close shuts the socket once; later calls are no-ops.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.state.Store(int32(Closed))
		err = s.conn.Close()
		flog.Debugf("chat session to %s closed", s.addr)
	})
	return err
}
