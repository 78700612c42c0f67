package domain

// Chunk is a bounded slice of a larger document, processed independently
// and discarded once insights are persisted. Chunks are non-overlapping
// and order-preserving: concatenating them by Index reconstructs the
// original text exactly.
type Chunk struct {
	// ParentID links to the material the chunk was cut from.
	ParentID string

	// Index is the ordinal position within the document, starting at 0.
	Index int

	// Text is the chunk content.
	Text string

	// TokenEstimate is the heuristic token count for the chunk text.
	TokenEstimate int
}
