// Package logx provides the leveled logger injected into the engine and
// transports.
package logx

import (
	"log"
	"strings"
)

// Logger is the logging surface used across ringlife.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NoOp discards everything. Tests and library callers that do not care use it.
type NoOp struct{}

func (NoOp) Debugf(string, ...any) {}
func (NoOp) Infof(string, ...any)  {}
func (NoOp) Warnf(string, ...any)  {}
func (NoOp) Errorf(string, ...any) {}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel maps a case-insensitive name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Std writes through a *log.Logger, dropping messages below its level.
type Std struct {
	level  Level
	prefix string
	out    *log.Logger
}

// New returns a Std logger writing to the standard logger.
func New(level string) *Std {
	return &Std{level: ParseLevel(level), out: log.Default()}
}

// With returns a copy whose messages are prefixed with tag, e.g. "rank 2".
func (l *Std) With(tag string) *Std {
	c := *l
	c.prefix = l.prefix + "[" + tag + "] "
	return &c
}

func (l *Std) logf(lv Level, label, format string, v ...any) {
	if lv < l.level {
		return
	}
	l.out.Printf("["+label+"] "+l.prefix+format, v...)
}

func (l *Std) Debugf(format string, v ...any) { l.logf(LevelDebug, "DEBUG", format, v...) }
func (l *Std) Infof(format string, v ...any)  { l.logf(LevelInfo, "INFO", format, v...) }
func (l *Std) Warnf(format string, v ...any)  { l.logf(LevelWarn, "WARN", format, v...) }
func (l *Std) Errorf(format string, v ...any) { l.logf(LevelError, "ERROR", format, v...) }

// Fatalf logs and exits.
func (l *Std) Fatalf(format string, v ...any) {
	l.out.Fatalf("[FATAL] "+l.prefix+format, v...)
}
