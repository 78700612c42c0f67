package driven

import (
	"context"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

// MaterialStore persists the reference-material corpus. Schema and
// transactions are owned by the adapter; the core only sees materials.
//
// The corpus is read-mostly: scans for retrieval vastly outnumber
// writes, and adapters must make embedding replacement atomic so a
// concurrent reader never observes a partially written vector.
type MaterialStore interface {
	// Save stores or updates a material.
	Save(ctx context.Context, m *domain.Material) error

	// Get retrieves a material by ID. Returns domain.ErrNotFound when
	// the material does not exist.
	Get(ctx context.Context, id string) (*domain.Material, error)

	// Delete removes a material.
	Delete(ctx context.Context, id string) error

	// List returns all materials, in insertion order.
	List(ctx context.Context) ([]domain.Material, error)

	// ListByCategory returns processed materials carrying the category.
	ListByCategory(ctx context.Context, category string) ([]domain.Material, error)

	// ListEmbedded returns processed materials with a non-nil embedding,
	// in stable corpus order. This is the searchable corpus.
	ListEmbedded(ctx context.Context) ([]domain.Material, error)

	// ListMissingEmbedding returns processed materials without an
	// embedding, for the batch regeneration sweep.
	ListMissingEmbedding(ctx context.Context) ([]domain.Material, error)

	// UpdateStatus transitions a material's lifecycle status.
	UpdateStatus(ctx context.Context, id string, status domain.MaterialStatus) error

	// SetInsights persists extracted insights and marks the material
	// processed in one update.
	SetInsights(ctx context.Context, id, insights string) error

	// SetEmbedding replaces a material's embedding. The replacement is
	// copy-then-swap: the stored vector is either the old one or the
	// new one, never a mix.
	SetEmbedding(ctx context.Context, id string, embedding []float32) error
}
