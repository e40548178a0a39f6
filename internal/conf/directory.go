package conf

import (
	"fmt"
	"net"
	"strings"
	"time"
)

type Directory struct {
	Servers_         []string `yaml:"servers"`
	TimeoutMs        int      `yaml:"timeout_ms"`
	MaxDatagrams     int      `yaml:"max_datagrams"`
	LegacyReassembly bool     `yaml:"legacy_reassembly"`
	CacheTTLSec      int      `yaml:"cache_ttl_sec"`

	Servers []string      `yaml:"-"`
	Timeout time.Duration `yaml:"-"`
}

func (d *Directory) setDefaults() {
	if d.TimeoutMs == 0 {
		d.TimeoutMs = 3000
	}
	if d.MaxDatagrams == 0 {
		d.MaxDatagrams = 64
	}
	if d.CacheTTLSec == 0 {
		d.CacheTTLSec = 60
	}
	d.Timeout = time.Duration(d.TimeoutMs) * time.Millisecond
}

func (d *Directory) validate() []error {
	var errors []error

	if len(d.Servers_) == 0 {
		errors = append(errors, fmt.Errorf("directory servers are required"))
	}
	d.Servers = d.Servers[:0]
	for i, s := range d.Servers_ {
		addr := strings.TrimSpace(s)
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errors = append(errors, fmt.Errorf("directory server[%d] %q must be host:port: %v", i, s, err))
			continue
		}
		d.Servers = append(d.Servers, addr)
	}
	if d.TimeoutMs < 1 || d.TimeoutMs > 60000 {
		errors = append(errors, fmt.Errorf("directory timeout_ms must be between 1-60000, got %d", d.TimeoutMs))
	}
	if d.MaxDatagrams < 1 || d.MaxDatagrams > 4096 {
		errors = append(errors, fmt.Errorf("directory max_datagrams must be between 1-4096, got %d", d.MaxDatagrams))
	}
	if d.CacheTTLSec < 0 {
		errors = append(errors, fmt.Errorf("directory cache_ttl_sec must not be negative, got %d", d.CacheTTLSec))
	}
	return errors
}

func (d *Directory) CacheTTL() time.Duration {
	return time.Duration(d.CacheTTLSec) * time.Second
}
