package session

import (
	"context"
	"fmt"
	"net"
	"pduchat/internal/conf"

	"github.com/txthinking/socks5"
)

// Dialer opens the TCP connection under a chat session.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewDialer returns the dialer configured by the outbound section.
func NewDialer(cfg *conf.Outbound) (Dialer, error) {
	if cfg == nil || cfg.Type == "" || cfg.Type == "direct" {
		return newDirectDialer(), nil
	}
	if cfg.Type == "socks5" {
		return newSOCKS5Dialer(cfg.Addr, cfg.Username, cfg.Password)
	}
	return nil, fmt.Errorf("unsupported outbound type %q", cfg.Type)
}

type directDialer struct {
	d *net.Dialer
}

func (d *directDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return d.d.DialContext(ctx, network, address)
}

// The connect timeout comes from the caller's context.
func newDirectDialer() Dialer {
	return &directDialer{d: &net.Dialer{}}
}

type socks5Dialer struct {
	client *socks5.Client
}

// DialContext runs the blocking SOCKS5 handshake in a goroutine so the
// context deadline still bounds it.
func (d *socks5Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		conn, err := d.client.Dial(network, address)
		done <- result{conn, err}
	}()
	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		select {
		case <-ctx.Done():
			res.conn.Close()
			return nil, ctx.Err()
		default:
			return res.conn, nil
		}
	case <-ctx.Done():
		go func() {
			if res := <-done; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

func newSOCKS5Dialer(addr, username, password string) (Dialer, error) {
	client, err := socks5.NewClient(addr, username, password, 10, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to create socks5 client for %s: %w", addr, err)
	}
	return &socks5Dialer{client: client}, nil
}
