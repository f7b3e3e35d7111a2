// Package logger is the leveled logger shared by the word service binaries.
// Output is one line per entry: "<RFC3339 time> [LEVEL] message".
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

// String returns the lower-case level name.
func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "info"
}

// ParseLevel is case-insensitive; unknown input maps to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Logger writes leveled lines to an io.Writer.
type Logger struct {
	mu    sync.RWMutex
	out   *log.Logger
	level Level
	exit  func(int)
}

// New returns a Logger at LevelInfo writing to w.
func New(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", 0), level: LevelInfo, exit: os.Exit}
}

func (l *Logger) SetLevel(lvl Level) {
	l.mu.Lock()
	l.level = lvl
	l.mu.Unlock()
}

func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetOutput redirects subsequent output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.out = log.New(w, "", 0)
	l.mu.Unlock()
}

func (l *Logger) logf(lvl Level, format string, v ...interface{}) {
	l.mu.RLock()
	out, threshold := l.out, l.level
	l.mu.RUnlock()
	if lvl < threshold && lvl != LevelFatal {
		return
	}
	out.Printf("%s [%s] %s", time.Now().Format(time.RFC3339), strings.ToUpper(lvl.String()), fmt.Sprintf(format, v...))
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

// Fatalf always logs, then exits the process with status 1.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logf(LevelFatal, format, v...)
	l.exit(1)
}

var std = New(os.Stdout)

// Default returns the process-wide logger.
func Default() *Logger { return std }

// Init sets the global log level (debug, info, warn, error, fatal). Default is info.
func Init(level string) { std.SetLevel(ParseLevel(level)) }

// LevelString returns the current global level as text.
func LevelString() string { return std.Level().String() }

func Debugf(format string, v ...interface{}) { std.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { std.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { std.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { std.Errorf(format, v...) }
func Fatalf(format string, v ...interface{}) { std.Fatalf(format, v...) }

func Info(v string) { std.Infof("%s", v) }
func Warn(v string) { std.Warnf("%s", v) }
