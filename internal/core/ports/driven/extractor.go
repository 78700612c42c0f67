package driven

import "context"

// TextExtractor converts an uploaded file into raw text. Extraction is
// owned outside the core: when it fails, the caller receives a
// placeholder string and the pipeline proceeds with normal content
// checks, no special-casing.
type TextExtractor interface {
	// Extract returns the text content of the file at path.
	Extract(ctx context.Context, path string) (string, error)
}
