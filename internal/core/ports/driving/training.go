package driving

import (
	"context"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

// TrainingService manages the reference-material corpus: ingestion,
// insight extraction (the document pipeline), and embedding upkeep.
type TrainingService interface {
	// AddMaterial registers a new material in pending status.
	AddMaterial(ctx context.Context, title, content string, categories []string) (*domain.Material, error)

	// ProcessMaterial runs the document pipeline for a material:
	// chunking, per-chunk insight extraction, and synthesis. The
	// material ends in processed status with insights persisted, or in
	// error/cancelled status.
	ProcessMaterial(ctx context.Context, id string) (string, error)

	// ProcessMaterialAsync starts ProcessMaterial in the background and
	// returns immediately. Progress is observable through the
	// material's status field.
	ProcessMaterialAsync(id string)

	// CancelProcessing requests cancellation of a background job. The
	// job stops at the next chunk boundary and the material moves to
	// cancelled status.
	CancelProcessing(id string) bool

	// RefreshEmbedding regenerates the embedding for one material.
	RefreshEmbedding(ctx context.Context, id string) error

	// RefreshAllEmbeddings regenerates embeddings for every processed
	// material lacking one. Per-material failures are contained.
	RefreshAllEmbeddings(ctx context.Context) (int, error)

	// EnhanceSessionAnalysis analyses a session transcript against the
	// insights of processed materials in a category.
	EnhanceSessionAnalysis(ctx context.Context, transcript, category string) (string, error)

	// GetMaterial retrieves a material by ID.
	GetMaterial(ctx context.Context, id string) (*domain.Material, error)

	// ListMaterials returns the full corpus.
	ListMaterials(ctx context.Context) ([]domain.Material, error)

	// DeleteMaterial removes a material.
	DeleteMaterial(ctx context.Context, id string) error
}
