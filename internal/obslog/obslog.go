// Package obslog is the nurse-shift core's logging setup: a single
// process-wide zerolog.Logger with per-component child loggers, in the
// style of jpfluger-alibs-slim's alog package.
package obslog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	base     zerolog.Logger
	initOnce sync.Once
)

func ensureInit() {
	initOnce.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		level := zerolog.InfoLevel
		if lvl, err := zerolog.ParseLevel(os.Getenv("NURSESHIFT_LOG_LEVEL")); err == nil {
			level = lvl
		}
		base = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	})
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	ensureInit()
	return &base
}

// WithComponent returns a child logger tagging every event with
// component=name, the way the packages that log identify themselves in
// log output (core, solve, and the CLI's watch loop).
func WithComponent(name string) *zerolog.Logger {
	ensureInit()
	l := base.With().Str("component", name).Logger()
	return &l
}
