package client

import (
	"context"
	"fmt"
	"pduchat/internal/codec"
	"pduchat/internal/directory"
	"pduchat/internal/flog"
	"pduchat/internal/session"
)

// SelectServer connects to entry in the background. The outcome arrives on
// Events as EventConnected or EventError.
func (c *Client) SelectServer(ctx context.Context, entry directory.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.wg.Go(func() {
		_ = c.Connect(ctx, entry.Address())
	})
}

// Connect opens a session to addr and makes it the active one. An existing
// active session is sent QUIT and retired before the new session sends its
// JOIN. On failure the previous session stays active.
func (c *Client) Connect(ctx context.Context, addr string) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrShutdown
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	var opts []session.Option
	if c.rec != nil {
		opts = append(opts, session.WithRecorder(c.rec))
	}
	s, err := session.Dial(ctx, c.dialer, addr, c.cfg.Chat.ConnectTimeout, opts...)
	if err != nil {
		flog.Errorf("%v", err)
		c.publish(Event{Kind: EventError, ErrorKind: ErrorConnect, Server: addr, Err: err})
		return err
	}

	join, err := codec.EncodeJoin(c.Nickname())
	if err != nil {
		s.Close()
		c.publish(Event{Kind: EventError, ErrorKind: ErrorConnect, Server: addr, Err: err})
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		s.Close()
		return ErrShutdown
	}
	if old := c.active; old != nil {
		c.sendLocked(old, quitFrame())
		old.state = stateRetiring
		flog.Infof("leaving %s", old.s.Addr())
	}
	h := &handle{s: s, state: stateActive}
	c.handles[h] = struct{}{}
	c.active = h
	if err := c.sendLocked(h, join); err != nil {
		flog.Warnf("failed to join %s: %v", addr, err)
	}
	c.wg.Go(func() { c.readLoop(h) })
	c.mu.Unlock()

	flog.Infof("joined %s as %s", addr, c.Nickname())
	c.publish(Event{Kind: EventConnected, Server: addr})
	return nil
}

// Disconnect says QUIT to the active server and retires its session.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ErrNoSession
	}
	c.sendLocked(c.active, quitFrame())
	c.active.state = stateRetiring
	c.active = nil
	return nil
}

// sendLocked writes frame on h. Callers hold c.mu, which orders frames
// across sessions as well as within one.
func (c *Client) sendLocked(h *handle, frame []byte) error {
	if err := h.s.Send(frame); err != nil {
		flog.Warnf("%v", err)
		return fmt.Errorf("send to %s: %w", h.s.Addr(), err)
	}
	return nil
}

func quitFrame() []byte {
	return codec.EncodeQuit()
}
