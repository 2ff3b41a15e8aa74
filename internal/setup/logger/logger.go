package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stdout at the given level; unknown levels
// fall back to info.
func New(level string) zerolog.Logger {
	return newWithWriter(os.Stdout, level)
}

// NewConsole returns a human-readable logger on stderr, the format the
// commands use. stdio-bound commands must not log to stdout.
func NewConsole(level string) zerolog.Logger {
	return newWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

func newWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
