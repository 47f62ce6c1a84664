// Package logging is the rewriter's structured logger and diagnostic display,
// built on pterm.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
)

// Enumeration of the log levels, from quietest to most verbose.
const (
	LevelSilent  = "silent"  // no output at all
	LevelError   = "error"   // errors only
	LevelWarning = "warning" // errors and warnings
	LevelInfo    = "info"    // run summary and per-stage progress (default)
	LevelDebug   = "debug"   // per-pass timings and rewrite notifications
)

var levels = map[string]pterm.LogLevel{
	LevelSilent:  pterm.LogLevelDisabled,
	LevelError:   pterm.LogLevelError,
	LevelWarning: pterm.LogLevelWarn,
	LevelInfo:    pterm.LogLevelInfo,
	LevelDebug:   pterm.LogLevelDebug,
}

// ValidLevel reports whether name is a known level.
func ValidLevel(name string) bool {
	_, ok := levels[strings.ToLower(name)]
	return ok
}

// Logger writes leveled, key/value structured messages. It is safe for
// concurrent use: front-end workers log while parsing in parallel.
type Logger struct {
	pl    *pterm.Logger
	level pterm.LogLevel
	m     sync.Mutex
}

// New returns a logger writing to w at the named level. Unknown levels fall
// back to info; a nil writer means stderr.
func New(level string, w io.Writer) *Logger {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = pterm.LogLevelInfo
	}
	if w == nil {
		w = os.Stderr
	}
	if lvl == pterm.LogLevelDisabled {
		w = io.Discard
	}
	pl := pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
	return &Logger{pl: pl, level: lvl}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(LevelSilent, io.Discard)
}

// Enabled reports whether messages at the named level are written.
func (l *Logger) Enabled(level string) bool {
	if l == nil {
		return false
	}
	lvl, ok := levels[level]
	return ok && l.level != pterm.LogLevelDisabled && lvl >= l.level
}

func (l *Logger) off() bool {
	return l == nil || l.level == pterm.LogLevelDisabled
}

// args converts alternating key/value pairs into logger arguments.
func (l *Logger) args(kv []interface{}) []pterm.LoggerArgument {
	if len(kv)%2 == 1 {
		kv = append(kv, "(missing)")
	}
	norm := make([]any, len(kv))
	for i, v := range kv {
		if i%2 == 0 {
			norm[i] = fmt.Sprint(v)
			continue
		}
		norm[i] = v
	}
	return l.pl.Args(norm...)
}

func (l *Logger) Debug(msg string, kv ...interface{}) {
	if l.off() {
		return
	}
	l.m.Lock()
	defer l.m.Unlock()
	l.pl.Debug(msg, l.args(kv))
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	if l.off() {
		return
	}
	l.m.Lock()
	defer l.m.Unlock()
	l.pl.Info(msg, l.args(kv))
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	if l.off() {
		return
	}
	l.m.Lock()
	defer l.m.Unlock()
	l.pl.Warn(msg, l.args(kv))
}

func (l *Logger) Error(msg string, kv ...interface{}) {
	if l.off() {
		return
	}
	l.m.Lock()
	defer l.m.Unlock()
	l.pl.Error(msg, l.args(kv))
}
