// Package chunker provides a fixed-size text splitter for the document
// pipeline.
package chunker

import (
	"unicode/utf8"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/tokens"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 8000

// Splitter cuts document content into fixed-size chunks.
type Splitter struct {
	chunkSize int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split cuts text into non-overlapping, order-preserving windows of at
// most chunkSize bytes; the last chunk may be shorter. Window ends snap
// back to the nearest rune start so no chunk carries a torn UTF-8
// sequence. Chunks are transient: concatenating them by index
// reconstructs the input exactly. Empty text produces no chunks.
func (s *Splitter) Split(parentID, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	estimated := len(text)/s.chunkSize + 1
	chunks := make([]domain.Chunk, 0, estimated)

	for start, index := 0, 0; start < len(text); index++ {
		end := start + s.chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			for end > start && !utf8.RuneStart(text[end]) {
				end--
			}
			// A window smaller than one rune still has to advance.
			if end == start {
				end = start + s.chunkSize
			}
		}
		part := text[start:end]
		chunks = append(chunks, domain.Chunk{
			ParentID:      parentID,
			Index:         index,
			Text:          part,
			TokenEstimate: tokens.Estimate(part),
		})
		start = end
	}

	return chunks
}
