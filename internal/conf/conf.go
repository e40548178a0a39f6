package conf

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

type Conf struct {
	Log       Log       `yaml:"log"`
	Nickname  string    `yaml:"nickname"`
	Directory Directory `yaml:"directory"`
	Chat      Chat      `yaml:"chat"`
	Outbound  Outbound  `yaml:"outbound"`
	Capture   Capture   `yaml:"capture"`
}

func LoadFromFile(path string) (*Conf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML document, fills defaults and validates every section.
func Parse(data []byte) (*Conf, error) {
	var conf Conf

	if err := yaml.Unmarshal(data, &conf); err != nil {
		return &conf, err
	}

	conf.setDefaults()
	if err := conf.validate(); err != nil {
		return &conf, err
	}

	return &conf, nil
}

func (c *Conf) setDefaults() {
	c.Log.setDefaults()
	c.Directory.setDefaults()
	c.Chat.setDefaults()
	c.Outbound.setDefaults()
	c.Capture.setDefaults()

	c.Nickname = strings.TrimSpace(c.Nickname)
	if c.Nickname == "" {
		c.Nickname = defaultNickname()
	}
}

func (c *Conf) validate() error {
	var allErrors []error

	allErrors = append(allErrors, c.Log.validate()...)
	allErrors = append(allErrors, validateNickname(c.Nickname)...)
	allErrors = append(allErrors, c.Directory.validate()...)
	allErrors = append(allErrors, c.Chat.validate()...)
	allErrors = append(allErrors, c.Outbound.validate()...)
	allErrors = append(allErrors, c.Capture.validate()...)

	return writeErr(allErrors)
}

const MaxNicknameLen = 255

// ValidateNickname reports why name cannot be used on the wire.
func ValidateNickname(name string) error {
	if errs := validateNickname(name); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func validateNickname(name string) []error {
	var errors []error
	if name == "" {
		errors = append(errors, fmt.Errorf("nickname must not be empty"))
	}
	if len(name) > MaxNicknameLen {
		errors = append(errors, fmt.Errorf("nickname must be at most %d bytes, got %d", MaxNicknameLen, len(name)))
	}
	if strings.IndexByte(name, 0) >= 0 {
		errors = append(errors, fmt.Errorf("nickname must not contain zero bytes"))
	}
	return errors
}

func defaultNickname() string {
	for _, env := range []string{"USER", "USERNAME"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" && len(v) <= MaxNicknameLen {
			return v
		}
	}
	return "anonymous"
}

func writeErr(allErrors []error) error {
	if len(allErrors) > 0 {
		var messages []string
		for _, err := range allErrors {
			messages = append(messages, err.Error())
		}
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(messages, "\n  - "))
	}
	return nil
}
