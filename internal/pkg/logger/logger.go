package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	DEBUG = zerolog.DebugLevel
	INFO  = zerolog.InfoLevel
	WARN  = zerolog.WarnLevel
	ERROR = zerolog.ErrorLevel
	FATAL = zerolog.FatalLevel
)

type Logger struct {
	zl zerolog.Logger
}

// New builds a JSON logger writing to w at the given level
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		zl: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// NewForEnv mirrors how the service logs in each environment: a colored
// console writer in development and JSON lines everywhere else.
func NewForEnv(appEnv, level string) *Logger {
	lvl := ParseLevel(level)
	if appEnv == "development" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return &Logger{zl: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}
	}
	return New(os.Stdout, lvl)
}

// ParseLevel falls back to info for unknown names
func ParseLevel(level string) Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Zerolog exposes the underlying logger for structured fields
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

var (
	mu            sync.RWMutex
	defaultLogger = New(os.Stdout, INFO)
)

// SetDefault replaces the global logger
func SetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// L returns the global zerolog logger for structured events
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger.Zerolog()
}
