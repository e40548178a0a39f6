package flog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
	None
)

var names = map[Level]string{
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
}

var (
	level  atomic.Int32
	logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
)

func init() {
	level.Store(int32(Info))
}

// ParseLevel maps a config string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	case "none", "off":
		return None, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

func SetLevel(l Level) {
	level.Store(int32(l))
}

func GetLevel() Level {
	return Level(level.Load())
}

func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func logf(l Level, format string, args ...any) {
	if l < GetLevel() {
		return
	}
	logger.Output(3, "["+names[l]+"] "+fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any) { logf(Debug, format, args...) }
func Infof(format string, args ...any)  { logf(Info, format, args...) }
func Warnf(format string, args ...any)  { logf(Warn, format, args...) }
func Errorf(format string, args ...any) { logf(Error, format, args...) }

// Fatalf logs regardless of level and exits.
func Fatalf(format string, args ...any) {
	logger.Output(2, "[FATAL] "+fmt.Sprintf(format, args...))
	os.Exit(1)
}
