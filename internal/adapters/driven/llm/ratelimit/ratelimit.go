// Package ratelimit wraps an LLM service with request rate limiting,
// so bursts of pipeline fan-out stay inside provider quotas.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultRequestsPerSecond is a conservative default that stays well
// under typical provider limits.
const DefaultRequestsPerSecond = 2

// LLMService decorates another LLM service, blocking each call until
// the limiter grants a slot. Waiting respects context cancellation.
type LLMService struct {
	inner   driven.LLMService
	limiter *rate.Limiter
}

// New wraps inner with a limiter of rps requests per second.
// Non-positive rps uses the default.
func New(inner driven.LLMService, rps float64) *LLMService {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &LLMService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Complete waits for a limiter slot, then delegates.
func (s *LLMService) Complete(ctx context.Context, req driven.CompletionRequest) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Complete(ctx, req)
}

// CompleteJSON waits for a limiter slot, then delegates.
func (s *LLMService) CompleteJSON(ctx context.Context, req driven.CompletionRequest) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.CompleteJSON(ctx, req)
}

// ModelName returns the wrapped service's model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming a limiter slot.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
