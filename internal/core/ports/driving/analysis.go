// Package driving provides interfaces for primary (inbound) adapters.
package driving

import (
	"context"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

// AnalysisService runs the session pipeline: preprocess a transcript,
// extract themes, retrieve grounding materials per theme, and compose a
// structured analysis.
type AnalysisService interface {
	// AnalyzeSession analyses a session transcript end to end.
	//
	// Validation failures and theme-extraction schema violations are
	// returned as errors; every other stage degrades in place, so a
	// non-nil result always carries an overview and one analysis per
	// extracted theme.
	AnalyzeSession(ctx context.Context, transcript string) (*domain.AnalysisResult, error)
}

// SearchService finds corpus materials semantically similar to a query.
type SearchService interface {
	// Search embeds the query and ranks processed, embedded materials
	// by cosine similarity. An empty corpus yields an empty slice.
	Search(ctx context.Context, query string, limit int, minSimilarity float64) ([]domain.MaterialReference, error)
}
