// Package directory queries name servers over UDP for the list of chat
// servers.
package directory

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"pduchat/internal/codec"
	"pduchat/internal/conf"
	"pduchat/internal/flog"
	"pduchat/internal/pkg/buffer"
	"pduchat/internal/pkg/iterator"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrNoServers = errors.New("directory: no servers configured")

const lastListing = "last"

// DiscoveryError reports a directory server that never answered.
type DiscoveryError struct {
	Addr string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("no reply from directory %s: %v", e.Addr, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Recorder observes every datagram sent or received.
type Recorder interface {
	Record(local, remote net.Addr, inbound bool, payload []byte) error
}

type Client struct {
	servers      *iterator.Iterator[string]
	timeout      time.Duration
	maxDatagrams int
	legacy       bool
	cache        *cache.Cache
	rec          Recorder
}

type Option func(*Client)

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.rec = r }
}

func New(cfg *conf.Directory, opts ...Option) *Client {
	c := &Client{
		servers:      iterator.New(cfg.Servers...),
		timeout:      cfg.Timeout,
		maxDatagrams: cfg.MaxDatagrams,
		legacy:       cfg.LegacyReassembly,
		cache:        cache.New(cfg.CacheTTL(), 2*cfg.CacheTTL()),
	}
	if c.maxDatagrams <= 0 {
		c.maxDatagrams = 64
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List asks the directory servers for the chat server list, trying each
// configured server at most once, starting with the next one in rotation.
// The first server that answers wins, even with a partial list.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	servers := c.servers.Round()
	if len(servers) == 0 {
		return nil, ErrNoServers
	}

	var errs []error
	for _, addr := range servers {
		entries, err := c.query(ctx, addr)
		if err == nil {
			c.cache.SetDefault(lastListing, slices.Clone(entries))
			return entries, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		flog.Warnf("directory %s failed: %v", addr, err)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// Cached returns the last listing fetched within the cache TTL.
func (c *Client) Cached() ([]Entry, bool) {
	v, ok := c.cache.Get(lastListing)
	if !ok {
		return nil, false
	}
	return slices.Clone(v.([]Entry)), true
}

func (c *Client) query(ctx context.Context, addr string) ([]Entry, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, &DiscoveryError{Addr: addr, Err: err}
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	query := codec.EncodeDirectoryQuery()
	if _, err := conn.Write(query); err != nil {
		return nil, &DiscoveryError{Addr: addr, Err: err}
	}
	c.record(conn, false, query)

	bufp := buffer.GetDatagram()
	defer buffer.PutDatagram(bufp)
	buf := *bufp

	asm := NewAssembler(c.legacy)
	for received := 0; !asm.Complete(); received++ {
		if received == c.maxDatagrams {
			flog.Warnf("directory %s sent %d datagrams without completing the list, keeping %d of %d entries", addr, received, len(asm.Entries()), asm.Total())
			break
		}
		if err := conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !asm.Started() {
				return nil, &DiscoveryError{Addr: addr, Err: err}
			}
			if errors.Is(err, os.ErrDeadlineExceeded) {
				flog.Warnf("directory %s timed out, keeping %d of %d entries", addr, len(asm.Entries()), asm.Total())
				break
			}
			return nil, fmt.Errorf("failed to read from directory %s: %w", addr, err)
		}
		c.record(conn, true, buf[:n])

		accepted, err := asm.Add(buf[:n])
		if err != nil {
			flog.Debugf("directory %s: datagram %d: %v", addr, received, err)
		} else if !accepted {
			flog.Debugf("directory %s: dropped repeated datagram", addr)
		}
	}

	entries := asm.Entries()
	flog.Debugf("directory %s listed %d servers", addr, len(entries))
	return entries, nil
}

func (c *Client) record(conn net.Conn, inbound bool, payload []byte) {
	if c.rec == nil {
		return
	}
	if err := c.rec.Record(conn.LocalAddr(), conn.RemoteAddr(), inbound, payload); err != nil {
		flog.Debugf("capture on directory socket failed: %v", err)
	}
}
