package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the service-wide zerolog Logger: a human-friendly console
// writer when APP_ENV is dev, JSON otherwise. LOG_LEVEL overrides the default
// info level.
func NewLogger(env string) zerolog.Logger {
	var l zerolog.Logger
	if env == "dev" || env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	lvl := zerolog.InfoLevel
	if p, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && p != zerolog.NoLevel {
		lvl = p
	}
	return l.Level(lvl)
}
