package conf

import (
	"fmt"
	"strings"
)

// Capture enables writing chat and directory traffic to a pcap file.
type Capture struct {
	File    string `yaml:"file"`
	Snaplen int    `yaml:"snaplen"`
}

func (c *Capture) setDefaults() {
	c.File = strings.TrimSpace(c.File)
	if c.Snaplen == 0 {
		c.Snaplen = 65535
	}
}

func (c *Capture) validate() []error {
	var errors []error

	if c.Snaplen < 64 || c.Snaplen > 262144 {
		errors = append(errors, fmt.Errorf("capture snaplen must be between 64-262144, got %d", c.Snaplen))
	}
	return errors
}

func (c *Capture) Enabled() bool {
	return c.File != ""
}
