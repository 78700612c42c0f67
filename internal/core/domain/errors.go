package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested material does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates empty or malformed required input.
	// Surfaced immediately, never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrThemeSchema indicates the theme-extraction response failed the
	// expected schema. This is the one structural failure with no
	// fallback: without a valid theme list no per-theme step is
	// meaningful.
	ErrThemeSchema = errors.New("theme response schema violation")

	// ErrProviderUnavailable indicates the LLM or embedding provider
	// could not serve a request after its bounded retry. Callers take
	// the deterministic fallback path rather than propagating it.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrCancelled indicates background processing was cancelled
	// between iterations.
	ErrCancelled = errors.New("processing cancelled")
)

// TransientError marks a provider failure as retryable. Network errors,
// timeouts, and rate limits are transient; authentication and quota
// exhaustion are not.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as retryable. Returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is marked retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
