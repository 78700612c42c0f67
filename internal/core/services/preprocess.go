package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
	"github.com/sessio-labs/sessio-cli/internal/logger"
	"github.com/sessio-labs/sessio-cli/internal/tokens"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

const (
	// DefaultMaxInputTokens is the largest transcript, in estimated
	// tokens, passed to an analysis prompt without reduction.
	DefaultMaxInputTokens = 6000

	// summaryResponseTokens caps the condensed transcript returned by
	// the provider.
	summaryResponseTokens = 1500

	// omissionMarkerTokens is the allowance reserved for the marker
	// lines injected between the head and tail of a truncated
	// transcript.
	omissionMarkerTokens = 100
)

// Preprocessor reduces transcripts that exceed the analysis token
// budget. Short inputs pass through untouched. Oversized inputs are
// condensed by the provider when one is configured, and truncated
// deterministically when the provider is missing or fails. The result
// is always usable text, so callers never branch on an error.
type Preprocessor struct {
	llm       driven.LLMService
	maxTokens int
}

// PreprocessorOption configures a Preprocessor.
type PreprocessorOption func(*Preprocessor)

// WithMaxInputTokens overrides the token budget. Non-positive values
// keep the default.
func WithMaxInputTokens(n int) PreprocessorOption {
	return func(p *Preprocessor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// NewPreprocessor creates a Preprocessor. llm may be nil, in which
// case oversized inputs go straight to deterministic truncation.
func NewPreprocessor(llm driven.LLMService, opts ...PreprocessorOption) *Preprocessor {
	p := &Preprocessor{
		llm:       llm,
		maxTokens: DefaultMaxInputTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Reduce returns text fit for an analysis prompt. Inputs within the
// budget are returned unchanged as a success. Oversized inputs come
// back condensed (success) or truncated (degraded); the value is
// always non-empty when text is non-empty.
func (p *Preprocessor) Reduce(ctx context.Context, text string) domain.StageResult[string] {
	if tokens.Estimate(text) <= p.maxTokens {
		return domain.Success(text)
	}

	if p.llm != nil {
		summary, err := withRetry(ctx, "preprocess summary", func(ctx context.Context) (string, error) {
			return p.llm.Complete(ctx, driven.CompletionRequest{
				SystemPrompt: summarySystemPrompt,
				UserPrompt:   fmt.Sprintf(summaryUserPrompt, text),
				MaxTokens:    summaryResponseTokens,
				Temperature:  0.3,
			})
		})
		if err == nil && strings.TrimSpace(summary) != "" {
			return domain.Success(summary)
		}
		if err != nil {
			logger.Warn("preprocess: summary failed, falling back to truncation: %v", err)
		}
	}

	return domain.Degraded(p.truncate(text), "transcript truncated without summarisation")
}

// truncate keeps the opening third of the transcript's lines up to
// half the budget, injects omission markers, then keeps lines from the
// two-thirds mark until the budget is spent. Line boundaries are
// preserved so speaker turns stay intact.
func (p *Preprocessor) truncate(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return text
	}

	var b strings.Builder
	used := 0

	headBudget := p.maxTokens / 2
	headEnd := len(lines) / 3
	for i := 0; i < headEnd; i++ {
		cost := tokens.Estimate(lines[i]) + 1
		if used+cost > headBudget {
			break
		}
		b.WriteString(lines[i])
		b.WriteString("\n")
		used += cost
	}

	b.WriteString("\n[...]\n")
	b.WriteString("[Middle section omitted to fit processing limits]\n")
	b.WriteString("[...]\n\n")
	used += omissionMarkerTokens

	for i := len(lines) * 2 / 3; i < len(lines); i++ {
		cost := tokens.Estimate(lines[i]) + 1
		if used+cost > p.maxTokens {
			break
		}
		b.WriteString(lines[i])
		b.WriteString("\n")
		used += cost
	}

	return b.String()
}
