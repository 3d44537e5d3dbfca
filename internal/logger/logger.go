// Package logger builds the application logger. Output goes to stderr
// in console format so command output on stdout stays clean for piping.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr. Verbose mode lowers the level
// to debug.
func New(verbose bool) zerolog.Logger {
	return NewWithOutput(os.Stderr, verbose)
}

// NewWithOutput returns a logger writing to w. Useful for testing.
func NewWithOutput(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
