package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/storage/memory"
	"github.com/sessio-labs/sessio-cli/internal/chunker"
	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
)

func newTestTrainer(llm *mockLLM, emb *mockEmbedding) (*Trainer, *memory.MaterialStore) {
	store := memory.NewMaterialStore()
	var embSvc driven.EmbeddingService
	if emb != nil {
		embSvc = emb
	}
	var llmSvc driven.LLMService
	if llm != nil {
		llmSvc = llm
	}
	return NewTrainer(store, embSvc, llmSvc, NewInsightExtractor(llmSvc)), store
}

func TestTrainer_AddMaterial(t *testing.T) {
	tr, store := newTestTrainer(&mockLLM{}, nil)

	m, err := tr.AddMaterial(context.Background(), "CBT Manual", "chapter one", []string{"cbt"})
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, domain.StatusPending, m.Status)

	stored, err := store.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "CBT Manual", stored.Title)
}

func TestTrainer_AddMaterialValidation(t *testing.T) {
	tr, _ := newTestTrainer(&mockLLM{}, nil)

	_, err := tr.AddMaterial(context.Background(), "", "content", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = tr.AddMaterial(context.Background(), "Title", " ", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTrainer_ProcessMaterial(t *testing.T) {
	llm := &mockLLM{
		completeFn: func(driven.CompletionRequest) (string, error) {
			return "extracted insights", nil
		},
	}
	emb := &mockEmbedding{vector: []float32{1, 0, 0}}
	tr, store := newTestTrainer(llm, emb)
	ctx := context.Background()

	m, err := tr.AddMaterial(ctx, "Doc", "some lecture content", nil)
	require.NoError(t, err)

	insights, err := tr.ProcessMaterial(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "extracted insights", insights)

	stored, err := store.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, stored.Status)
	assert.Equal(t, "extracted insights", stored.Insights)
	assert.NotNil(t, stored.Embedding)
}

func TestTrainer_ProcessMaterialNoProviderSetsError(t *testing.T) {
	tr, store := newTestTrainer(nil, nil)
	ctx := context.Background()

	m, err := tr.AddMaterial(ctx, "Doc", "content", nil)
	require.NoError(t, err)

	_, err = tr.ProcessMaterial(ctx, m.ID)
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)

	stored, err := store.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, stored.Status)
}

func TestTrainer_ProcessMaterialProviderOutageStillProcesses(t *testing.T) {
	llm := &mockLLM{
		completeFn: func(driven.CompletionRequest) (string, error) {
			return "", errors.New("model offline")
		},
	}
	tr, store := newTestTrainer(llm, nil)
	ctx := context.Background()

	m, err := tr.AddMaterial(ctx, "Doc", "content", nil)
	require.NoError(t, err)

	insights, err := tr.ProcessMaterial(ctx, m.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, insights)

	stored, err := store.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, stored.Status)
	assert.NotEmpty(t, stored.Insights)
}

func TestTrainer_ProcessMaterialEmbeddingFailureKeepsProcessed(t *testing.T) {
	llm := &mockLLM{
		completeFn: func(driven.CompletionRequest) (string, error) {
			return "insights", nil
		},
	}
	emb := &mockEmbedding{embedErr: errors.New("embedder down")}
	tr, store := newTestTrainer(llm, emb)
	ctx := context.Background()

	m, err := tr.AddMaterial(ctx, "Doc", "content", nil)
	require.NoError(t, err)

	_, err = tr.ProcessMaterial(ctx, m.ID)
	require.NoError(t, err)

	stored, err := store.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, stored.Status)
	assert.Nil(t, stored.Embedding)
}

func TestTrainer_ProcessMaterialNotFound(t *testing.T) {
	tr, _ := newTestTrainer(&mockLLM{}, nil)

	_, err := tr.ProcessMaterial(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrainer_CancelBackgroundProcessing(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	llm := &mockLLM{
		completeFn: func(req driven.CompletionRequest) (string, error) {
			once.Do(func() { close(started) })
			time.Sleep(50 * time.Millisecond)
			return "note", nil
		},
	}
	store := memory.NewMaterialStore()
	extractor := NewInsightExtractor(llm,
		WithSplitter(chunker.New(chunker.WithChunkSize(100))),
		WithExtractionConcurrency(1))
	tr := NewTrainer(store, nil, llm, extractor)
	ctx := context.Background()

	m, err := tr.AddMaterial(ctx, "Big Doc", strings.Repeat("z", 2000), nil)
	require.NoError(t, err)

	tr.ProcessMaterialAsync(m.ID)
	<-started
	assert.True(t, tr.CancelProcessing(m.ID))

	require.Eventually(t, func() bool {
		stored, err := store.Get(ctx, m.ID)
		return err == nil && stored.Status == domain.StatusCancelled
	}, 5*time.Second, 10*time.Millisecond)
}

func TestTrainer_CancelProcessingNoJob(t *testing.T) {
	tr, _ := newTestTrainer(&mockLLM{}, nil)
	assert.False(t, tr.CancelProcessing("nothing-running"))
}

func TestTrainer_RefreshEmbeddingComposesText(t *testing.T) {
	emb := &mockEmbedding{vector: []float32{1, 0, 0}}
	tr, store := newTestTrainer(&mockLLM{}, emb)
	ctx := context.Background()

	content := strings.Repeat("c", 6000)
	m, err := tr.AddMaterial(ctx, "Doc Title", content, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetInsights(ctx, m.ID, "key insights"))

	require.NoError(t, tr.RefreshEmbedding(ctx, m.ID))

	require.Len(t, emb.texts, 1)
	text := emb.texts[0]
	assert.True(t, strings.HasPrefix(text, "Doc Title"))
	assert.Contains(t, text, "key insights")
	// Content head only.
	assert.Less(t, len(text), 5200)
}

func TestTrainer_RefreshAllEmbeddings(t *testing.T) {
	calls := 0
	emb := &mockEmbedding{
		embedFn: func(string) ([]float32, error) {
			calls++
			if calls == 2 {
				return nil, errors.New("embedder hiccup")
			}
			return []float32{1, 0, 0}, nil
		},
	}
	tr, store := newTestTrainer(&mockLLM{}, emb)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		m, err := tr.AddMaterial(ctx, title, "content", nil)
		require.NoError(t, err)
		require.NoError(t, store.SetInsights(ctx, m.ID, "insights"))
	}

	refreshed, err := tr.RefreshAllEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed)

	embedded, err := store.ListEmbedded(ctx)
	require.NoError(t, err)
	assert.Len(t, embedded, 2)
}

func TestTrainer_RefreshAllWithoutProvider(t *testing.T) {
	tr, _ := newTestTrainer(&mockLLM{}, nil)

	_, err := tr.RefreshAllEmbeddings(context.Background())
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestTrainer_EnhanceSessionAnalysis(t *testing.T) {
	llm := &mockLLM{
		completeFn: func(req driven.CompletionRequest) (string, error) {
			if req.SystemPrompt == enhanceSystemPrompt {
				assert.Contains(t, req.UserPrompt, "pacing techniques")
				return "enhanced analysis", nil
			}
			return "insights", nil
		},
	}
	tr, store := newTestTrainer(llm, nil)
	ctx := context.Background()

	m, err := tr.AddMaterial(ctx, "Workbook", "content", []string{"cbt"})
	require.NoError(t, err)
	require.NoError(t, store.SetInsights(ctx, m.ID, "pacing techniques"))

	analysis, err := tr.EnhanceSessionAnalysis(ctx, "Client: I feel stuck.", "cbt")
	require.NoError(t, err)
	assert.Equal(t, "enhanced analysis", analysis)
}

func TestTrainer_EnhanceFallsBackToInsights(t *testing.T) {
	llm := &mockLLM{
		completeFn: func(driven.CompletionRequest) (string, error) {
			return "", errors.New("model offline")
		},
	}
	tr, store := newTestTrainer(llm, nil)
	ctx := context.Background()

	m, err := tr.AddMaterial(ctx, "Workbook", "content", []string{"cbt"})
	require.NoError(t, err)
	require.NoError(t, store.SetInsights(ctx, m.ID, "pacing techniques"))

	analysis, err := tr.EnhanceSessionAnalysis(ctx, "Client: I feel stuck.", "cbt")
	require.NoError(t, err)
	assert.Contains(t, analysis, "Workbook")
	assert.Contains(t, analysis, "pacing techniques")
}

func TestTrainer_EnhanceEmptyCategory(t *testing.T) {
	tr, _ := newTestTrainer(&mockLLM{}, nil)

	_, err := tr.EnhanceSessionAnalysis(context.Background(), "transcript", "empty")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrainer_DeleteMaterial(t *testing.T) {
	tr, store := newTestTrainer(&mockLLM{}, nil)
	ctx := context.Background()

	m, err := tr.AddMaterial(ctx, "Doc", "content", nil)
	require.NoError(t, err)
	require.NoError(t, tr.DeleteMaterial(ctx, m.ID))

	_, err = store.Get(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLargeContent(t *testing.T) {
	assert.False(t, LargeContent(strings.Repeat("a", 10000)))
	assert.True(t, LargeContent(strings.Repeat("a", 10001)))
}
