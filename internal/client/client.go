// Package client owns the chat sessions of one user: at most one active
// server connection, the sessions still being retired after a switch, and
// the event stream reported to the front end.
package client

import (
	"context"
	"errors"
	"net"
	"pduchat/internal/conf"
	"pduchat/internal/directory"
	"pduchat/internal/flog"
	"pduchat/internal/session"
	"sync"
	"sync/atomic"
)

var (
	ErrNoSession = errors.New("client: no active session")
	ErrShutdown  = errors.New("client: shut down")
)

type handleState int

const (
	stateActive handleState = iota
	stateRetiring
	stateClosed
)

// handle is the manager's record of one session. Its state is guarded by
// Client.mu.
type handle struct {
	s     *session.Session
	state handleState
}

// Recorder observes traffic on chat sessions and directory sockets.
type Recorder interface {
	Record(local, remote net.Addr, inbound bool, payload []byte) error
}

type Client struct {
	cfg    *conf.Conf
	dialer session.Dialer
	dir    *directory.Client
	rec    Recorder

	nickname atomic.Pointer[string]
	key      atomic.Pointer[[]byte]
	compress atomic.Bool
	encrypt  atomic.Bool

	mu      sync.Mutex
	active  *handle
	handles map[*handle]struct{}
	closed  bool

	events chan Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

type Option func(*Client)

func WithDialer(d session.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.rec = r }
}

func New(ctx context.Context, cfg *conf.Conf, opts ...Option) (*Client, error) {
	ctx, cancel := context.WithCancel(ctx)
	c := &Client{
		cfg:     cfg,
		handles: make(map[*handle]struct{}),
		events:  make(chan Event, cfg.Chat.EventBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dialer == nil {
		d, err := session.NewDialer(&cfg.Outbound)
		if err != nil {
			cancel()
			return nil, err
		}
		c.dialer = d
	}
	var dirOpts []directory.Option
	if c.rec != nil {
		dirOpts = append(dirOpts, directory.WithRecorder(c.rec))
	}
	c.dir = directory.New(&cfg.Directory, dirOpts...)

	nick := cfg.Nickname
	c.nickname.Store(&nick)
	key := []byte(cfg.Chat.Key)
	c.key.Store(&key)
	c.compress.Store(cfg.Chat.Compress)
	c.encrypt.Store(cfg.Chat.Encrypt)

	c.wg.Go(func() { c.ticker(ctx) })
	return c, nil
}

// Events is the single stream of everything the manager reports. It is
// never closed; stop reading when Done is closed.
func (c *Client) Events() <-chan Event {
	return c.events
}

func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Client) publish(ev Event) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}

// Shutdown says QUIT to the active server, closes every session and waits
// for all reader goroutines.
func (c *Client) Shutdown() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		if c.active != nil {
			c.sendLocked(c.active, quitFrame())
			c.active = nil
		}
		for h := range c.handles {
			h.s.Close()
			h.state = stateClosed
			delete(c.handles, h)
		}
		c.mu.Unlock()

		c.cancel()
		c.wg.Wait()
		flog.Infof("chat client shut down")
	})
}

// Nickname returns the name sent on every join.
func (c *Client) Nickname() string {
	return *c.nickname.Load()
}

// Connected reports the address of the active session, if any.
func (c *Client) Connected() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return "", false
	}
	return c.active.s.Addr(), true
}
