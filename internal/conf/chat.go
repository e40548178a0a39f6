package conf

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const DefaultKey = "foobar"

type Chat struct {
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
	Key              string `yaml:"key"`
	Cipher           string `yaml:"cipher"`
	Compress         bool   `yaml:"compress"`
	Encrypt          bool   `yaml:"encrypt"`
	SweepIntervalMs  int    `yaml:"sweep_interval_ms"`
	EventBuffer      int    `yaml:"event_buffer"`

	ConnectTimeout time.Duration `yaml:"-"`
	SweepInterval  time.Duration `yaml:"-"`
}

func (c *Chat) setDefaults() {
	if c.ConnectTimeoutMs == 0 {
		c.ConnectTimeoutMs = 5000
	}
	if c.Key == "" {
		c.Key = DefaultKey
	}
	c.Cipher = strings.ToLower(strings.TrimSpace(c.Cipher))
	if c.Cipher == "" {
		c.Cipher = "standard"
	}
	if c.SweepIntervalMs == 0 {
		c.SweepIntervalMs = 1000
	}
	if c.EventBuffer == 0 {
		c.EventBuffer = 256
	}
	c.ConnectTimeout = time.Duration(c.ConnectTimeoutMs) * time.Millisecond
	c.SweepInterval = time.Duration(c.SweepIntervalMs) * time.Millisecond
}

func (c *Chat) validate() []error {
	var errors []error

	if c.ConnectTimeoutMs < 1 || c.ConnectTimeoutMs > 120000 {
		errors = append(errors, fmt.Errorf("chat connect_timeout_ms must be between 1-120000, got %d", c.ConnectTimeoutMs))
	}
	validCiphers := []string{"standard", "chacha20"}
	if !slices.Contains(validCiphers, c.Cipher) {
		errors = append(errors, fmt.Errorf("chat cipher must be one of: %s", strings.Join(validCiphers, ", ")))
	}
	if c.SweepIntervalMs < 10 {
		errors = append(errors, fmt.Errorf("chat sweep_interval_ms must be at least 10, got %d", c.SweepIntervalMs))
	}
	if c.EventBuffer < 1 || c.EventBuffer > 65536 {
		errors = append(errors, fmt.Errorf("chat event_buffer must be between 1-65536, got %d", c.EventBuffer))
	}
	return errors
}
