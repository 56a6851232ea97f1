package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the severity of a log message.
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
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
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

// writerLogger writes leveled, timestamped lines to a shared writer.
type writerLogger struct {
	mu        *sync.Mutex
	out       io.Writer
	level     Level
	component string
}

// NewWriterLogger returns a Logger emitting to out at the given minimum level.
func NewWriterLogger(out io.Writer, level Level) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &writerLogger{mu: &sync.Mutex{}, out: out, level: level}
}

// NewComponentLogger returns a stderr logger tagged with a component name.
func NewComponentLogger(component string) Logger {
	return &writerLogger{mu: &stderrMu, out: os.Stderr, level: defaultLevel(), component: component}
}

var stderrMu sync.Mutex

func defaultLevel() Level {
	if os.Getenv("BENRI_DEBUG") != "" {
		return LevelDebug
	}
	return LevelInfo
}

// WithComponent derives a logger sharing the same writer and level.
func (l *writerLogger) WithComponent(component string) Logger {
	return &writerLogger{mu: l.mu, out: l.out, level: l.level, component: component}
}

func (l *writerLogger) log(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.component != "" {
		fmt.Fprintf(l.out, "[%s] [%s] [%s] %s\n", ts, level, l.component, msg)
		return
	}
	fmt.Fprintf(l.out, "[%s] [%s] %s\n", ts, level, msg)
}

func (l *writerLogger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *writerLogger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *writerLogger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *writerLogger) Error(format string, args ...any) { l.log(LevelError, format, args...) }
