package services

import (
	"context"
	"time"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/logger"
)

// retryDelay is the pause before the single retry of a transient failure.
const retryDelay = 500 * time.Millisecond

// withRetry invokes call and retries it exactly once when the failure
// is transient. There are no unbounded retry loops anywhere in the
// pipeline: after the second failure the caller takes its fallback
// path (or propagates, for the stages without one).
func withRetry[T any](ctx context.Context, name string, call func(context.Context) (T, error)) (T, error) {
	v, err := call(ctx)
	if err == nil || !domain.IsTransient(err) {
		return v, err
	}

	logger.Warn("%s: transient failure, retrying once: %v", name, err)
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-time.After(retryDelay):
	}

	return call(ctx)
}
