// Package requestcontext provides context accessors for operation-scoped
// values.
//
// Services read the operation time from the context instead of calling
// time.Now() directly. That keeps every record written by one operation
// stamped consistently, and lets tests pin the clock without injecting a
// clock dependency into every constructor.
//
// Usage in services (read values):
//
//	now := requestcontext.Now(ctx)
//
// Usage in tests and batch jobs (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type operationTimeKey struct{}

// ContextKeyOperationTime is exported for tests that need context.WithValue
// directly.
var ContextKeyOperationTime = operationTimeKey{}

// Now retrieves the operation-scoped time from the context.
// Falls back to time.Now() when none was injected (CLI, production callers).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyOperationTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the operation time in a context.
// Useful for:
//   - Unit tests that assert on formatted audit timestamps
//   - Batch operations that need one consistent time across records
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyOperationTime, t)
}
