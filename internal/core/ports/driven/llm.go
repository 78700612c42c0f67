// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides language model completions for the analysis
// pipelines. Failures may be transient (network, timeout, rate limit) or
// permanent; callers retry transient failures once and then take their
// deterministic fallback path.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini, gpt-4o)
//   - Ollama (local models)
//   - Compatible inference servers
type LLMService interface {
	// Complete produces a text completion for the given prompts.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// CompleteJSON produces a completion in structured-output mode.
	// The returned string is the raw JSON document; callers parse and
	// validate it into typed values and never trust the shape.
	CompleteJSON(ctx context.Context, req CompletionRequest) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionRequest describes one completion call.
type CompletionRequest struct {
	// SystemPrompt sets the assistant's role and constraints.
	SystemPrompt string

	// UserPrompt is the content to complete against.
	UserPrompt string

	// MaxTokens bounds the output length. Zero means provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
