// Package logging reimplements, directly over github.com/decred/slog, the
// named-subsystem logging backend shape the teacher consumed from its
// sibling bisonbotkit/logging module (not part of this repo's dependency
// surface): a LogConfig plus a Backend that hands out named *slog.Logger
// instances, all sharing one debug level and one io.Writer.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/decred/slog"
)

// LogConfig configures a Backend. DebugLevel is one of trace, debug, info,
// warn, error, critical, off (the slog.Level names), matching the teacher's
// cmd/pokersrv -debuglevel flag.
type LogConfig struct {
	DebugLevel string
	// Writer receives formatted log lines; nil means os.Stdout.
	Writer io.Writer
}

// Backend hands out named loggers sharing one level and output stream.
type Backend struct {
	backend *slog.Backend
	level   slog.Level
}

// NewBackend constructs a Backend from cfg.
func NewBackend(cfg LogConfig) (*Backend, error) {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	level, ok := slog.LevelFromString(cfg.DebugLevel)
	if !ok {
		return nil, fmt.Errorf("logging: unknown debug level %q", cfg.DebugLevel)
	}

	return &Backend{
		backend: slog.NewBackend(w),
		level:   level,
	}, nil
}

// Logger returns a named logger at the backend's configured level.
func (b *Backend) Logger(subsystem string) slog.Logger {
	l := b.backend.Logger(subsystem)
	l.SetLevel(b.level)
	return l
}

// SetLevel changes the level applied to loggers returned by future calls to
// Logger. Existing loggers already handed out keep their level; callers
// that need a runtime-adjustable level should call Logger again.
func (b *Backend) SetLevel(level slog.Level) {
	b.level = level
}
