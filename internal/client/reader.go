package client

import (
	"errors"
	"io"
	"pduchat/internal/codec"
	"pduchat/internal/flog"
	"pduchat/internal/session"
)

// readLoop runs for the life of one session. Frames are only passed on
// while the session is the active one. Frames failing their checksum are
// dropped without an event.
func (c *Client) readLoop(h *handle) {
	addr := h.s.Addr()
	for {
		f, err := h.s.Receive()
		c.sweep()
		if err != nil {
			if h.s.IsClosed() {
				c.lost(h, err)
				return
			}
			if errors.Is(err, codec.ErrChecksum) {
				flog.Debugf("%v", err)
				continue
			}
			flog.Warnf("%v", err)
			if c.isActive(h) {
				c.publish(Event{Kind: EventError, ErrorKind: ErrorDecode, Server: addr, Err: err})
			}
			continue
		}
		if !c.isActive(h) {
			flog.Debugf("ignoring %s from retired session %s", f.Op(), addr)
			continue
		}
		c.dispatch(h, f)
	}
}

func (c *Client) isActive(h *handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active == h
}

// lost forgets a session whose socket is gone and reports it when it was the
// active one.
func (c *Client) lost(h *handle, err error) {
	c.mu.Lock()
	wasActive := c.active == h
	if wasActive {
		c.active = nil
	}
	h.state = stateClosed
	delete(c.handles, h)
	c.mu.Unlock()

	if !wasActive {
		return
	}
	ev := Event{Kind: EventConnectionLost, Server: h.s.Addr()}
	if !errors.Is(err, io.EOF) && !errors.Is(err, session.ErrClosed) {
		ev.Err = err
	}
	flog.Infof("connection to %s lost", h.s.Addr())
	c.publish(ev)
}

func (c *Client) dispatch(h *handle, f codec.Frame) {
	addr := h.s.Addr()
	switch f := f.(type) {
	case codec.Message:
		text, err := codec.Open(f, *c.key.Load())
		if errors.Is(err, codec.ErrChecksum) {
			flog.Debugf("dropped %s message from %s on %s: %v", f.Kind, f.Sender, addr, err)
			return
		}
		if err != nil {
			flog.Warnf("unreadable %s message from %s on %s: %v", f.Kind, f.Sender, addr, err)
			c.publish(Event{Kind: EventError, ErrorKind: ErrorDecode, Server: addr, Frame: f, Err: err})
			return
		}
		c.publish(Event{
			Kind:   EventMessage,
			Server: addr,
			Frame:  f,
			Time:   frameTime(f.Timestamp),
			Sender: f.Sender,
			Text:   string(text),
		})
	case codec.NickList:
		c.publish(Event{Kind: EventUserList, Server: addr, Frame: f, Time: frameTime(0), Nicknames: f.Nicknames})
	case codec.UserJoined:
		c.publish(Event{Kind: EventUserJoined, Server: addr, Frame: f, Time: frameTime(f.Timestamp), Nickname: f.Nickname})
	case codec.UserLeft:
		c.publish(Event{Kind: EventUserLeft, Server: addr, Frame: f, Time: frameTime(f.Timestamp), Nickname: f.Nickname})
	case codec.UserRenamed:
		c.publish(Event{
			Kind:        EventUserRenamed,
			Server:      addr,
			Frame:       f,
			Time:        frameTime(f.Timestamp),
			Nickname:    f.NewNickname,
			OldNickname: f.OldNickname,
		})
	case codec.Quit:
		c.mu.Lock()
		if c.active == h {
			c.active = nil
			h.state = stateRetiring
		}
		c.mu.Unlock()
		flog.Infof("server %s said goodbye", addr)
		c.publish(Event{Kind: EventServerQuit, Server: addr, Frame: f, Time: frameTime(0)})
	default:
		flog.Warnf("unexpected %s frame from %s", f.Op(), addr)
	}
}
