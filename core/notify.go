package core

import "context"

// Notifier receives the outcome of a recording operation. Implementations
// decide presentation; the caller emits exactly one message per operation.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}
