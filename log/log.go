// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Levels, finer than slog's.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to the default handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	// Crit logs and terminates the process.
	Crit(msg string, ctx ...any)
	Enabled(level slog.Level) bool
}

type logger struct {
	inner ethlog.Logger
}

func (l *logger) With(ctx ...any) Logger        { return &logger{l.inner.With(ctx...)} }
func (l *logger) Trace(msg string, ctx ...any)  { l.inner.Trace(msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any)  { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)   { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)   { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any)  { l.inner.Error(msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)   { l.inner.Crit(msg, ctx...) }
func (l *logger) Enabled(level slog.Level) bool { return l.inner.Enabled(context.Background(), level) }

// lazyLogger binds its context to whatever the default logger is at the
// time of logging, so package level loggers can be declared before
// SetDefault is called.
type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() ethlog.Logger { return ethlog.Root().With(l.ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(append(merged, l.ctx...), ctx...)
	return &lazyLogger{merged}
}
func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.resolve().Crit(msg, ctx...) }
func (l *lazyLogger) Enabled(level slog.Level) bool {
	return ethlog.Root().Enabled(context.Background(), level)
}

// WithContext returns a logger carrying the given context pairs.
// e.g. log.WithContext("pkg", "state")
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx}
}

// Root returns the default logger.
func Root() Logger {
	return &logger{ethlog.Root()}
}

// New returns a logger writing to h.
func New(h slog.Handler) Logger {
	return &logger{ethlog.NewLogger(h)}
}

// SetDefault replaces the default logger handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// DiscardHandler drops every record.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// NewTerminalHandlerWithLevel returns a human readable handler emitting
// records at or above lvl, colored when useColor is set.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl slog.Level, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandlerWithLevel(wr, lvl, useColor)
}

// JSONHandlerWithLevel returns a handler printing records in JSON format.
func JSONHandlerWithLevel(wr io.Writer, lvl slog.Level) slog.Handler {
	return ethlog.JSONHandlerWithLevel(wr, lvl)
}

// LogfmtHandlerWithLevel returns a handler printing records in logfmt format.
func LogfmtHandlerWithLevel(wr io.Writer, lvl slog.Level) slog.Handler {
	return ethlog.LogfmtHandlerWithLevel(wr, lvl)
}

// FromLegacyLevel converts the 0(crit)..5(trace) verbosity used on the
// command line to a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}
