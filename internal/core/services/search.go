package services

import (
	"context"
	"sort"
	"strings"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driving"
	"github.com/sessio-labs/sessio-cli/internal/vector"
)

const (
	// DefaultMinSimilarity is the relevance floor applied when callers
	// pass a non-positive threshold.
	DefaultMinSimilarity = 0.7

	// DefaultSearchLimit caps results when callers pass a non-positive
	// limit.
	DefaultSearchLimit = 5
)

// Searcher ranks embedded materials against a query by cosine
// similarity.
type Searcher struct {
	embedding driven.EmbeddingService
	store     driven.MaterialStore
}

var _ driving.SearchService = (*Searcher)(nil)

// NewSearcher creates a Searcher over the given embedding provider and
// material store.
func NewSearcher(embedding driven.EmbeddingService, store driven.MaterialStore) *Searcher {
	return &Searcher{embedding: embedding, store: store}
}

// Search embeds query and returns up to limit materials whose stored
// embedding scores at least minSimilarity against it, most similar
// first. Materials without an embedding never appear. An empty corpus
// yields an empty slice, not an error.
func (s *Searcher) Search(ctx context.Context, query string, limit int, minSimilarity float64) ([]domain.MaterialReference, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.embedding == nil {
		return nil, domain.ErrProviderUnavailable
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	queryVec, err := withRetry(ctx, "embed query", func(ctx context.Context) ([]float32, error) {
		return s.embedding.Embed(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	materials, err := s.store.ListEmbedded(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.MaterialReference, 0, len(materials))
	for _, m := range materials {
		sim := vector.Cosine(queryVec, m.Embedding)
		if sim < minSimilarity {
			continue
		}
		ref := m.Ref()
		ref.Similarity = sim
		refs = append(refs, ref)
	}

	// Stable sort keeps store order for ties, so repeated searches
	// over an unchanged corpus return identical rankings.
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Similarity > refs[j].Similarity
	})

	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}
