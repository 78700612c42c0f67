package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driving"
	"github.com/sessio-labs/sessio-cli/internal/logger"
)

const (
	// backgroundThresholdChars is the content size above which
	// ingestion defers processing to a background job instead of
	// running it inline.
	backgroundThresholdChars = 10000

	// embeddingContentChars caps how much raw content feeds the
	// embedding text. Title and insights carry most of the semantic
	// signal; the content head is context.
	embeddingContentChars = 5000

	enhanceResponseTokens = 1500
)

// Trainer manages the reference-material corpus: ingestion, the
// document insight pipeline, and embedding upkeep.
type Trainer struct {
	store     driven.MaterialStore
	embedding driven.EmbeddingService
	llm       driven.LLMService
	insights  *InsightExtractor

	mu   sync.Mutex
	jobs map[string]context.CancelFunc
}

var _ driving.TrainingService = (*Trainer)(nil)

// NewTrainer creates a Trainer. embedding may be nil, in which case
// materials are processed without embeddings and excluded from search.
func NewTrainer(store driven.MaterialStore, embedding driven.EmbeddingService, llm driven.LLMService, insights *InsightExtractor) *Trainer {
	return &Trainer{
		store:     store,
		embedding: embedding,
		llm:       llm,
		insights:  insights,
		jobs:      make(map[string]context.CancelFunc),
	}
}

// AddMaterial registers a material in pending status. Content above
// the background threshold is not processed here; callers start
// processing explicitly (inline or async).
func (t *Trainer) AddMaterial(ctx context.Context, title, content string, categories []string) (*domain.Material, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	m := &domain.Material{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		Categories: categories,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := t.store.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save material: %w", err)
	}
	return m, nil
}

// LargeContent reports whether content is big enough that processing
// should run in the background.
func LargeContent(content string) bool {
	return len(content) > backgroundThresholdChars
}

// ProcessMaterial runs the document pipeline for the material and
// persists the outcome. A cancelled context leaves the material in
// cancelled status; any other failure leaves it in error status.
func (t *Trainer) ProcessMaterial(ctx context.Context, id string) (string, error) {
	m, err := t.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := t.store.UpdateStatus(ctx, id, domain.StatusProcessing); err != nil {
		return "", err
	}

	res := t.insights.Extract(ctx, m.Title, m.Content)
	if res.Status == domain.StageFailed {
		status := domain.StatusError
		if ctx.Err() != nil {
			status = domain.StatusCancelled
		}
		// Status writes after cancellation must not use the cancelled
		// context.
		if uerr := t.store.UpdateStatus(context.WithoutCancel(ctx), id, status); uerr != nil {
			logger.Warn("training: could not record %s status for %s: %v", status, id, uerr)
		}
		if ctx.Err() != nil {
			return "", domain.ErrCancelled
		}
		return "", res.Err
	}
	if res.Status == domain.StageDegraded {
		logger.Degraded("insight extraction", res.Reason)
	}

	if err := t.store.SetInsights(ctx, id, res.Value); err != nil {
		return "", fmt.Errorf("persist insights: %w", err)
	}

	// Embedding failure does not undo a successful extraction; the
	// material stays processed and the batch sweep picks it up later.
	if err := t.RefreshEmbedding(ctx, id); err != nil {
		logger.Warn("training: embedding for %s deferred: %v", id, err)
	}
	return res.Value, nil
}

// ProcessMaterialAsync runs ProcessMaterial in a goroutine tracked for
// cancellation. A job already running for the same material is left
// alone.
func (t *Trainer) ProcessMaterialAsync(id string) {
	t.mu.Lock()
	if _, running := t.jobs[id]; running {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.jobs[id] = cancel
	t.mu.Unlock()

	go func() {
		defer func() {
			t.mu.Lock()
			delete(t.jobs, id)
			t.mu.Unlock()
			cancel()
		}()
		if _, err := t.ProcessMaterial(ctx, id); err != nil {
			logger.Warn("training: background processing of %s: %v", id, err)
		}
	}()
}

// CancelProcessing cancels the background job for id, if one is
// running.
func (t *Trainer) CancelProcessing(id string) bool {
	t.mu.Lock()
	cancel, ok := t.jobs[id]
	t.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// RefreshEmbedding regenerates the embedding for one material from its
// title, insights, and the head of its content.
func (t *Trainer) RefreshEmbedding(ctx context.Context, id string) error {
	if t.embedding == nil {
		return domain.ErrProviderUnavailable
	}
	m, err := t.store.Get(ctx, id)
	if err != nil {
		return err
	}
	vec, err := withRetry(ctx, "embed material", func(ctx context.Context) ([]float32, error) {
		return t.embedding.Embed(ctx, embeddingText(m))
	})
	if err != nil {
		return fmt.Errorf("embed material %s: %w", id, err)
	}
	return t.store.SetEmbedding(ctx, id, vec)
}

// RefreshAllEmbeddings sweeps processed materials lacking an embedding
// and generates one for each. Per-material failures are logged and
// skipped; the count of refreshed materials is returned.
func (t *Trainer) RefreshAllEmbeddings(ctx context.Context) (int, error) {
	if t.embedding == nil {
		return 0, domain.ErrProviderUnavailable
	}
	missing, err := t.store.ListMissingEmbedding(ctx)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, m := range missing {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if err := t.RefreshEmbedding(ctx, m.ID); err != nil {
			logger.Warn("training: embedding sweep skipped %s: %v", m.ID, err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// EnhanceSessionAnalysis analyses a transcript against the insights of
// processed materials in the category. When the provider call fails, a
// deterministic listing of the material insights stands in, so the
// caller always gets usable text alongside the materials.
func (t *Trainer) EnhanceSessionAnalysis(ctx context.Context, transcript, category string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", domain.ErrInvalidInput
	}
	materials, err := t.store.ListByCategory(ctx, category)
	if err != nil {
		return "", err
	}
	if len(materials) == 0 {
		return "", fmt.Errorf("%w: no processed materials in category %q", domain.ErrNotFound, category)
	}

	var refs strings.Builder
	for i, m := range materials {
		if i > 0 {
			refs.WriteString("\n\n")
		}
		fmt.Fprintf(&refs, "Material: %s\n%s", m.Title, m.Insights)
	}

	if t.llm == nil {
		return refs.String(), nil
	}
	analysis, err := withRetry(ctx, "enhance session analysis", func(ctx context.Context) (string, error) {
		return t.llm.Complete(ctx, driven.CompletionRequest{
			SystemPrompt: enhanceSystemPrompt,
			UserPrompt:   fmt.Sprintf(enhanceUserPrompt, refs.String(), transcript),
			MaxTokens:    enhanceResponseTokens,
			Temperature:  0.4,
		})
	})
	if err != nil {
		logger.Warn("training: enhanced analysis failed, returning material insights: %v", err)
		return refs.String(), nil
	}
	return analysis, nil
}

// GetMaterial retrieves a material by ID.
func (t *Trainer) GetMaterial(ctx context.Context, id string) (*domain.Material, error) {
	return t.store.Get(ctx, id)
}

// ListMaterials returns the full corpus.
func (t *Trainer) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	return t.store.List(ctx)
}

// DeleteMaterial removes a material, cancelling any background job
// first.
func (t *Trainer) DeleteMaterial(ctx context.Context, id string) error {
	t.CancelProcessing(id)
	return t.store.Delete(ctx, id)
}

// embeddingText composes the text embedded for a material: title and
// insights in full, then the head of the raw content.
func embeddingText(m *domain.Material) string {
	var b strings.Builder
	b.WriteString(m.Title)
	if m.Insights != "" {
		b.WriteString("\n\n")
		b.WriteString(m.Insights)
	}
	content := m.Content
	if len(content) > embeddingContentChars {
		content = content[:embeddingContentChars]
	}
	if content != "" {
		b.WriteString("\n\n")
		b.WriteString(content)
	}
	return b.String()
}
