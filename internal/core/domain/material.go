package domain

import "time"

// MaterialStatus tracks a material through its processing lifecycle.
// Transitions only move forward (pending -> processing -> processed),
// except an explicit reprocess which resets to pending. Error and
// cancelled are terminal until reprocessed.
type MaterialStatus string

const (
	// StatusPending means the material was received but not yet processed.
	StatusPending MaterialStatus = "pending"

	// StatusProcessing means insight extraction is in progress.
	StatusProcessing MaterialStatus = "processing"

	// StatusProcessed means insights were extracted and persisted.
	StatusProcessed MaterialStatus = "processed"

	// StatusError means processing failed and no insights are available.
	StatusError MaterialStatus = "error"

	// StatusCancelled means processing was cancelled before completion.
	StatusCancelled MaterialStatus = "cancelled"
)

// EmbeddingDimensions is the vector size used across the corpus.
// Every stored embedding must have exactly this many components.
const EmbeddingDimensions = 384

// Material represents a reference document in the corpus: an uploaded
// lecture, supervision note, or transcript used to ground analyses.
type Material struct {
	// ID is the unique identifier for the material.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text.
	Content string

	// Insights is the synthesized document-level summary produced by
	// the insight pipeline. Empty until the material is processed.
	Insights string

	// Categories are free-form topic labels assigned at ingestion.
	Categories []string

	// Status is the current lifecycle state.
	Status MaterialStatus

	// Embedding is the semantic vector for similarity search.
	// Nil until generated; always EmbeddingDimensions long otherwise.
	// Replacement is copy-then-swap: readers never observe a partially
	// written vector.
	Embedding []float32

	// CreatedAt is when the material was received.
	CreatedAt time.Time

	// UpdatedAt is when the material was last modified.
	UpdatedAt time.Time
}

// MaterialReference is the lightweight form of a material carried in
// retrieval and analysis results.
type MaterialReference struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Categories []string `json:"categories,omitempty"`
	Insights   string   `json:"insights,omitempty"`

	// Similarity is the cosine score against the query when the
	// reference came from semantic search, zero otherwise.
	Similarity float64 `json:"similarity,omitempty"`
}

// Ref returns the reference form of the material.
func (m *Material) Ref() MaterialReference {
	return MaterialReference{
		ID:         m.ID,
		Title:      m.Title,
		Categories: m.Categories,
		Insights:   m.Insights,
	}
}
