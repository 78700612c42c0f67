package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sessio-labs/sessio-cli/internal/chunker"
	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
	"github.com/sessio-labs/sessio-cli/internal/logger"
)

const (
	// DefaultExtractionConcurrency bounds the number of chunk
	// extraction calls in flight at once.
	DefaultExtractionConcurrency = 3

	// extractionResponseTokens caps each per-chunk response.
	extractionResponseTokens = 1000

	// synthesisResponseTokens caps the merged analysis.
	synthesisResponseTokens = 2000

	// chunkPlaceholder stands in for a chunk whose extraction failed
	// after retry, so the remaining chunks still produce a document
	// analysis.
	chunkPlaceholder = "[No insights could be extracted from this section.]"
)

// InsightExtractor turns a document into an organised insight
// analysis: the document is split into chunks, each chunk is analysed
// independently, and the per-chunk notes are merged into one text.
type InsightExtractor struct {
	llm         driven.LLMService
	splitter    *chunker.Splitter
	concurrency int
}

// InsightOption configures an InsightExtractor.
type InsightOption func(*InsightExtractor)

// WithExtractionConcurrency bounds concurrent chunk calls.
// Non-positive values keep the default.
func WithExtractionConcurrency(n int) InsightOption {
	return func(e *InsightExtractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithSplitter replaces the default chunk splitter.
func WithSplitter(s *chunker.Splitter) InsightOption {
	return func(e *InsightExtractor) {
		if s != nil {
			e.splitter = s
		}
	}
}

// NewInsightExtractor creates an InsightExtractor backed by llm.
func NewInsightExtractor(llm driven.LLMService, opts ...InsightOption) *InsightExtractor {
	e := &InsightExtractor{
		llm:         llm,
		splitter:    chunker.New(),
		concurrency: DefaultExtractionConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract analyses the document and returns the merged insight text.
// Chunk failures degrade the result rather than failing it; only empty
// content, a missing provider, or cancellation fails.
func (e *InsightExtractor) Extract(ctx context.Context, title, content string) domain.StageResult[string] {
	if strings.TrimSpace(content) == "" {
		return domain.Failed[string](domain.ErrInvalidInput)
	}
	if e.llm == nil {
		return domain.Failed[string](domain.ErrProviderUnavailable)
	}

	chunks := e.splitter.Split(title, content)
	notes := make([]string, len(chunks))
	failed := 0

	if len(chunks) == 1 {
		note, err := e.extractChunk(ctx, title, 1, 1, chunks[0].Text)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Failed[string](ctx.Err())
			}
			logger.Warn("insights: extraction failed, using placeholder: %v", err)
			return domain.Degraded(chunkPlaceholder, "no chunk produced insights")
		}
		return domain.Success(note)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, c := range chunks {
		g.Go(func() error {
			// Stop at the chunk boundary once the run is cancelled.
			if err := gctx.Err(); err != nil {
				return err
			}
			note, err := e.extractChunk(gctx, title, i+1, len(chunks), c.Text)
			if err != nil {
				logger.Warn("insights: chunk %d/%d failed: %v", i+1, len(chunks), err)
				notes[i] = chunkPlaceholder
				return nil
			}
			notes[i] = note
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Failed[string](err)
	}

	for _, n := range notes {
		if n == chunkPlaceholder {
			failed++
		}
	}
	if failed == len(chunks) {
		return domain.Degraded(strings.Join(notes, "\n\n"), "no chunk produced insights")
	}

	merged, err := e.synthesize(ctx, title, notes)
	if err != nil {
		logger.Warn("insights: synthesis failed, concatenating chunk notes: %v", err)
		return domain.Degraded(e.concatenate(notes), "chunk notes concatenated without synthesis")
	}
	if failed > 0 {
		return domain.Degraded(merged, fmt.Sprintf("%d of %d chunks produced no insights", failed, len(chunks)))
	}
	return domain.Success(merged)
}

func (e *InsightExtractor) extractChunk(ctx context.Context, title string, index, total int, text string) (string, error) {
	prompt := fmt.Sprintf(insightTemplate, text)
	if total > 1 {
		prompt = fmt.Sprintf(insightChunkContext, index, total, title) + prompt
	}
	return withRetry(ctx, "extract chunk insights", func(ctx context.Context) (string, error) {
		return e.llm.Complete(ctx, driven.CompletionRequest{
			SystemPrompt: insightSystemPrompt,
			UserPrompt:   prompt,
			MaxTokens:    extractionResponseTokens,
			Temperature:  0.3,
		})
	})
}

func (e *InsightExtractor) synthesize(ctx context.Context, title string, notes []string) (string, error) {
	return withRetry(ctx, "synthesize insights", func(ctx context.Context) (string, error) {
		return e.llm.Complete(ctx, driven.CompletionRequest{
			SystemPrompt: synthesisSystemPrompt,
			UserPrompt:   fmt.Sprintf(synthesisUserPrompt, title, strings.Join(notes, "\n\n---\n\n")),
			MaxTokens:    synthesisResponseTokens,
			Temperature:  0.3,
		})
	})
}

// concatenate joins per-chunk notes with section headers, preserving
// chunk order.
func (e *InsightExtractor) concatenate(notes []string) string {
	var b strings.Builder
	for i, n := range notes {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## Part %d\n\n%s", i+1, n)
	}
	return b.String()
}
