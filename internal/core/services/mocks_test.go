package services

import (
	"context"
	"sync"

	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockLLM implements driven.LLMService. Behaviour is configured with
// completeFn/jsonFn; unset functions return canned output. Calls are
// recorded for assertions.
type mockLLM struct {
	completeFn func(req driven.CompletionRequest) (string, error)
	jsonFn     func(req driven.CompletionRequest) (string, error)

	mu            sync.Mutex
	completeCalls []driven.CompletionRequest
	jsonCalls     []driven.CompletionRequest
}

func (m *mockLLM) Complete(_ context.Context, req driven.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.completeCalls = append(m.completeCalls, req)
	m.mu.Unlock()
	if m.completeFn != nil {
		return m.completeFn(req)
	}
	return "mock completion", nil
}

func (m *mockLLM) CompleteJSON(_ context.Context, req driven.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.jsonCalls = append(m.jsonCalls, req)
	m.mu.Unlock()
	if m.jsonFn != nil {
		return m.jsonFn(req)
	}
	return "{}", nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

func (m *mockLLM) completeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.completeCalls)
}

// mockEmbedding implements driven.EmbeddingService, returning a fixed
// vector or the result of embedFn.
type mockEmbedding struct {
	vector   []float32
	embedFn  func(text string) ([]float32, error)
	embedErr error

	mu    sync.Mutex
	texts []string
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector, nil
}

func (m *mockEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

func (m *mockEmbedding) Dimensions() int { return len(m.vector) }

func (m *mockEmbedding) ModelName() string { return "mock-embed" }

func (m *mockEmbedding) Ping(_ context.Context) error { return nil }

func (m *mockEmbedding) Close() error { return nil }
