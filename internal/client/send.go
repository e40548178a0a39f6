package client

import (
	"context"
	"errors"
	"pduchat/internal/codec"
	"pduchat/internal/conf"
	"pduchat/internal/directory"
	"pduchat/internal/flog"
	"pduchat/internal/obfs"
)

// Send writes a raw frame on the active session.
func (c *Client) Send(frame []byte) error {
	c.mu.Lock()
	h := c.active
	if h == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	err := c.sendLocked(h, frame)
	c.mu.Unlock()

	if err != nil {
		c.publish(Event{Kind: EventError, ErrorKind: ErrorSend, Server: h.s.Addr(), Err: err})
	}
	return err
}

// SendText wraps text according to the current compress and encrypt
// switches and sends it.
func (c *Client) SendText(text string) error {
	m, err := codec.Seal([]byte(text), codec.SealOptions{
		Compress: c.compress.Load(),
		Encrypt:  c.encrypt.Load(),
		Key:      *c.key.Load(),
		Cipher:   c.cfg.Chat.Cipher,
	})
	if err != nil {
		return err
	}
	frame, err := codec.EncodeMessage(m)
	if err != nil {
		return err
	}
	return c.Send(frame)
}

// SetNickname changes the name used for future joins and renames the user
// on the active server.
func (c *Client) SetNickname(name string) error {
	if err := conf.ValidateNickname(name); err != nil {
		return err
	}
	c.nickname.Store(&name)

	frame, err := codec.EncodeChangeNick(name)
	if err != nil {
		return err
	}
	err = c.Send(frame)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	return err
}

// SetKey replaces the key used to encrypt outgoing and decrypt incoming
// messages.
func (c *Client) SetKey(key string) error {
	if key == "" {
		return obfs.ErrEmptyKey
	}
	k := []byte(key)
	c.key.Store(&k)
	return nil
}

func (c *Client) SetCompress(on bool) {
	c.compress.Store(on)
}

func (c *Client) SetEncrypt(on bool) {
	c.encrypt.Store(on)
}

func (c *Client) Compress() bool {
	return c.compress.Load()
}

func (c *Client) Encrypt() bool {
	return c.encrypt.Load()
}

// Discover lists the chat servers and publishes the result.
func (c *Client) Discover(ctx context.Context) ([]directory.Entry, error) {
	entries, err := c.dir.List(ctx)
	if err != nil {
		flog.Errorf("server discovery failed: %v", err)
		c.publish(Event{Kind: EventError, ErrorKind: ErrorDiscovery, Err: err})
		return nil, err
	}
	c.publish(Event{Kind: EventDiscovery, Entries: entries})
	return entries, nil
}

// Servers returns the last discovered list still within the cache TTL.
func (c *Client) Servers() ([]directory.Entry, bool) {
	return c.dir.Cached()
}
