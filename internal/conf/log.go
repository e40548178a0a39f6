package conf

import (
	"pduchat/internal/flog"
	"strings"
)

type Log struct {
	Level_ string `yaml:"level"`

	Level flog.Level `yaml:"-"`
}

func (l *Log) setDefaults() {
	l.Level_ = strings.ToLower(strings.TrimSpace(l.Level_))
	if l.Level_ == "" {
		l.Level_ = "info"
	}
}

func (l *Log) validate() []error {
	var errors []error

	lvl, err := flog.ParseLevel(l.Level_)
	if err != nil {
		errors = append(errors, err)
	} else {
		l.Level = lvl
	}
	return errors
}
