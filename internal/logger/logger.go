package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the process logger. Unknown levels fall back to info.
// Logs always go to stderr because stdout carries MCP traffic.
func Init(level string, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return InitWriter(w, level)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return log
}

// Get returns the process logger.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}
