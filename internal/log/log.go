// Package log is the leveled printf logger the canvas and host plumbing
// write through. One sink, one threshold; callers tag their own messages
// ([CANVAS], [HOST], [MAIN]).
package log

import (
	"io"
	"log"
	"strings"
)

// Level is the logger's emission threshold. Messages below it are dropped;
// LevelNone silences the logger entirely.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	}
	return "UNKNOWN"
}

// LevelFromString parses a config or flag value, case-insensitively.
// Unrecognized values fall back to LevelInfo, the config default.
func LevelFromString(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "ERROR":
		return LevelError
	case "NONE":
		return LevelNone
	}
	return LevelInfo
}

// Logger writes leveled lines to a single sink. Safe for concurrent use;
// the underlying log.Logger serializes writes.
type Logger struct {
	out   *log.Logger
	level Level
}

func New(w io.Writer, level Level) *Logger {
	return &Logger{out: log.New(w, "", 0), level: level}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.printf(LevelDebug, "DEBUG", format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.printf(LevelInfo, "INFO", format, args...)
}

// Warnf shares the info threshold: a warning matters whenever info does.
func (l *Logger) Warnf(format string, args ...any) {
	l.printf(LevelInfo, "WARN", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf(LevelError, "ERROR", format, args...)
}

func (l *Logger) printf(lv Level, tag, format string, args ...any) {
	if l.level > lv {
		return
	}
	l.out.Printf(tag+": "+format, args...)
}

func (l *Logger) SetLevel(lv Level) { l.level = lv }

func (l *Logger) Level() Level { return l.level }
