// Package logging is the structured logger shared by the recorder CLI and
// the bridge daemon. Components receive a Logger tagged with their module
// name; SlogLogger is the only real implementation.
package logging

import "context"

// ModuleKey is the attribute naming the component that logged a record.
const ModuleKey = "module"

// Logger is a context-aware, structured logger. Args are key/value pairs:
//
//	log.Info(ctx, "video saved", "path", v.Path, "size", v.Size)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes args.
	With(args ...any) Logger
}

// ForModule tags l with the component name. A nil l yields Nop.
func ForModule(l Logger, name string) Logger {
	if l == nil {
		return Nop{}
	}
	return l.With(ModuleKey, name)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
