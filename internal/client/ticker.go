package client

import (
	"context"
	"pduchat/internal/flog"
	"time"
)

// ticker closes retired sessions on every sweep interval.
func (c *Client) ticker(ctx context.Context) {
	interval := c.cfg.Chat.SweepInterval
	if interval <= 0 {
		interval = time.Second
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			c.sweep()
			timer.Reset(interval)
		case <-ctx.Done():
			return
		}
	}
}

// sweep closes every retiring session and forgets the closed ones.
func (c *Client) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for h := range c.handles {
		switch h.state {
		case stateRetiring:
			h.s.Close()
			h.state = stateClosed
			delete(c.handles, h)
			flog.Debugf("retired session to %s closed", h.s.Addr())
		case stateClosed:
			delete(c.handles, h)
		}
	}
}
