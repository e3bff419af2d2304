// Package logging provides the component loggers injected into the
// environment and the solver.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/logrusorgru/aurora"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	}
	return "OFF"
}

// ParseMode maps the "prod" / "debug" run modes onto a level.
func ParseMode(mode string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "prod":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("unknown mode %q (want prod or debug)", mode)
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// Colours used for component names.
const (
	ColorEnv    = aurora.CyanFg
	ColorSolver = aurora.MagentaFg
	ColorApp    = aurora.GreenFg
)

type consoleLogger struct {
	name  string
	color aurora.Color
	level Level
	au    aurora.Aurora
	out   *log.Logger
}

// New returns a logger writing "[NAME] [LEVEL] msg" lines to w. Messages
// below level are dropped.
func New(name string, color aurora.Color, w io.Writer, level Level) Logger {
	return newConsole(name, color, w, level, true)
}

// NewPlain is New without ANSI colours, for files and tests.
func NewPlain(name string, w io.Writer, level Level) Logger {
	return newConsole(name, 0, w, level, false)
}

func newConsole(name string, color aurora.Color, w io.Writer, level Level, colors bool) *consoleLogger {
	return &consoleLogger{
		name:  name,
		color: color,
		level: level,
		au:    aurora.NewAurora(colors),
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *consoleLogger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, format, args...)
}

func (l *consoleLogger) Infof(format string, args ...any) {
	l.logf(LevelInfo, format, args...)
}

func (l *consoleLogger) Errorf(format string, args ...any) {
	l.logf(LevelError, format, args...)
}

func (l *consoleLogger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	name := l.au.Colorize("["+l.name+"]", l.color)
	tag := l.au.Colorize("["+level.String()+"]", levelColor(level))
	l.out.Printf("%s %s %s", name, tag, fmt.Sprintf(format, args...))
}

func levelColor(level Level) aurora.Color {
	switch level {
	case LevelDebug:
		return aurora.BlueFg
	case LevelError:
		return aurora.RedFg
	}
	return aurora.GreenFg
}

type nop struct{}

func (nop) Debugf(string, ...any) {}
func (nop) Infof(string, ...any)  {}
func (nop) Errorf(string, ...any) {}

// Nop discards everything.
func Nop() Logger {
	return nop{}
}
