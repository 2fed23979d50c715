// Package netlog provides the structured stderr logging used across the
// module: a timestamp prefix formatted with strftime conventions, and
// color gated on whether stderr is actually a terminal.
package netlog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"
)

const timestampLayout = "%Y-%m-%d %H:%M:%S"

// Logger wraps an io.Writer with the module's line format: a timestamp, an
// optional ANSI color for the level, and the caller's message.
type Logger struct {
	out      io.Writer
	colorize bool
}

// New builds a Logger writing to w, auto-detecting whether w is a
// terminal to decide whether to colorize level tags.
func New(w io.Writer) *Logger {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd())
	}
	return &Logger{out: w, colorize: colorize}
}

const (
	colorReset  = "\x1b[0m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
)

func (l *Logger) line(color, level, format string, args ...any) {
	ts := strftime.Format(timestampLayout, time.Now())
	msg := fmt.Sprintf(format, args...)
	if l.colorize && color != "" {
		fmt.Fprintf(l.out, "%s [%s%s%s] %s\n", ts, color, level, colorReset, msg)
		return
	}
	fmt.Fprintf(l.out, "%s [%s] %s\n", ts, level, msg)
}

func (l *Logger) Infof(format string, args ...any)  { l.line("", "info", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.line(colorYellow, "warn", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.line(colorRed, "error", format, args...) }
