// Package telemetry holds the logging surface shared by lossbench packages.
package telemetry

import (
	"context"
	"log/slog"
)

// Logger is satisfied by *slog.Logger.
type Logger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return slog.New(slog.DiscardHandler)
}
