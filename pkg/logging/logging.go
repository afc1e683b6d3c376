// Package logging configures zerolog for the recess binary.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup builds the process logger at level, writing human-readable output to
// w (stderr when nil). Unknown levels fall back to info. The global
// zerolog logger is replaced so packages using log.Logger agree.
func Setup(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: !isTerminal(w)}
	logger := zerolog.New(console).With().Timestamp().Logger().Level(lvl)
	log.Logger = logger
	return logger
}
