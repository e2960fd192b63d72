// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides structured, leveled logging built on log/slog.
package log

import (
	"context"
	"log/slog"
	"os"
)

const (
	LevelError = slog.LevelError
	LevelWarn  = slog.LevelWarn
	LevelInfo  = slog.LevelInfo
	LevelDebug = slog.LevelDebug
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus ctx.
	With(ctx ...any) Logger

	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	// Enabled reports whether l emits log records at the given level.
	Enabled(level slog.Level) bool
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

func (l *logger) Enabled(level slog.Level) bool {
	return l.inner.Enabled(context.Background(), level)
}

var root Logger = NewLogger(DiscardHandler())

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	root = l
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// WithContext returns a logger bound to the given context attributes. The
// returned logger resolves the root logger on each call, so package-level
// loggers created before SetDefault still follow it.
func WithContext(ctx ...any) Logger {
	return &ctxLogger{ctx: ctx}
}

type ctxLogger struct {
	ctx []any
}

func (l *ctxLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &ctxLogger{ctx: merged}
}

func (l *ctxLogger) kv(ctx []any) []any {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return append(merged, ctx...)
}

func (l *ctxLogger) Debug(msg string, ctx ...any) { root.Debug(msg, l.kv(ctx)...) }
func (l *ctxLogger) Info(msg string, ctx ...any)  { root.Info(msg, l.kv(ctx)...) }
func (l *ctxLogger) Warn(msg string, ctx ...any)  { root.Warn(msg, l.kv(ctx)...) }
func (l *ctxLogger) Error(msg string, ctx ...any) { root.Error(msg, l.kv(ctx)...) }

func (l *ctxLogger) Enabled(level slog.Level) bool {
	return root.Enabled(level)
}

// NewTerminalLoggerWithLevel creates a logger writing human-readable records
// to stderr, filtered at the given level.
func NewTerminalLoggerWithLevel(level slog.Level, useColor bool) Logger {
	var lvl slog.LevelVar
	lvl.Set(level)
	return NewLogger(NewTerminalHandler(os.Stderr, &lvl, useColor))
}
