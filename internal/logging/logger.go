// Package logging is the structured logger shared by the ExamKeeper client
// and intake server. SlogLogger backs both binaries by default; the server
// can switch to ZapLogger with log_backend=zap.
package logging

import "context"

// Logger takes a message plus alternating key/value args:
//
//	log.Warn(ctx, "history append failed", "id", entry.ID, "error", err)
//
// Components log through a child from With("module", name) so upload,
// ledger and intake lines can be told apart. Debug is off unless the
// handler level allows it.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
