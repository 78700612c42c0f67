package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driving"
	"github.com/sessio-labs/sessio-cli/internal/logger"
)

const (
	// DefaultThemeConcurrency bounds concurrent per-theme analysis
	// calls.
	DefaultThemeConcurrency = 3

	// maxExcerptChars caps the transcript excerpt attached to each
	// per-theme prompt.
	maxExcerptChars = 1500

	// materialsPerTheme is the retrieval target for each theme.
	materialsPerTheme = 2

	themeResponseTokens    = 1500
	analysisResponseTokens = 1200
	overviewResponseTokens = 2000
)

// Analyzer runs the full thematic analysis of a session transcript:
// theme extraction, per-theme material retrieval, per-theme synthesis,
// and a final composed overview. Theme extraction is the only stage
// that can fail the whole analysis; everything after it degrades to
// deterministic fallbacks.
type Analyzer struct {
	llm           driven.LLMService
	store         driven.MaterialStore
	searcher      driving.SearchService
	preprocessor  *Preprocessor
	concurrency   int
	minSimilarity float64
}

var _ driving.AnalysisService = (*Analyzer)(nil)

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithThemeConcurrency bounds concurrent per-theme calls. Non-positive
// values keep the default.
func WithThemeConcurrency(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithRetrievalFloor sets the similarity floor for semantic material
// retrieval. Non-positive values keep the default.
func WithRetrievalFloor(min float64) AnalyzerOption {
	return func(a *Analyzer) {
		if min > 0 {
			a.minSimilarity = min
		}
	}
}

// NewAnalyzer creates an Analyzer. searcher may be nil, in which case
// retrieval relies on term matching alone. preprocessor may be nil,
// in which case a default one is built over llm.
func NewAnalyzer(llm driven.LLMService, store driven.MaterialStore, searcher driving.SearchService, preprocessor *Preprocessor, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		llm:           llm,
		store:         store,
		searcher:      searcher,
		preprocessor:  preprocessor,
		concurrency:   DefaultThemeConcurrency,
		minSimilarity: DefaultMinSimilarity,
	}
	if a.preprocessor == nil {
		a.preprocessor = NewPreprocessor(llm)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeSession analyses transcript and returns the composed result.
// It fails only when no provider is configured, when the transcript is
// empty, or when theme extraction returns an unusable response; later
// stage failures surface as a degraded result instead.
func (a *Analyzer) AnalyzeSession(ctx context.Context, transcript string) (*domain.AnalysisResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, domain.ErrInvalidInput
	}
	if a.llm == nil {
		return nil, domain.ErrProviderUnavailable
	}

	reduced := a.preprocessor.Reduce(ctx, transcript)
	degraded := reduced.Status == domain.StageDegraded
	text := reduced.Value

	themes, err := a.extractThemes(ctx, text)
	if err != nil {
		return nil, err
	}

	// Most relevant theme first; stable so equally relevant themes
	// keep extraction order.
	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Relevance > themes[j].Relevance
	})

	analyses := make([]domain.ThemeAnalysis, len(themes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, theme := range themes {
		g.Go(func() error {
			// Stop at the theme boundary once the run is cancelled.
			if err := gctx.Err(); err != nil {
				return err
			}
			analyses[i] = a.analyzeTheme(gctx, theme, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, ta := range analyses {
		if ta.Degraded {
			degraded = true
		}
	}

	overview, overviewDegraded := a.composeOverview(ctx, analyses)

	return &domain.AnalysisResult{
		Overview:            overview,
		ThematicAnalysis:    analyses,
		ReferencedMaterials: collectReferences(analyses),
		Degraded:            degraded || overviewDegraded,
	}, nil
}

// extractThemes asks the provider for structured themes and validates
// the response shape. A malformed response is a hard schema error: a
// wrong set of themes would poison every later stage.
func (a *Analyzer) extractThemes(ctx context.Context, transcript string) ([]domain.Theme, error) {
	raw, err := withRetry(ctx, "extract themes", func(ctx context.Context) (string, error) {
		return a.llm.CompleteJSON(ctx, driven.CompletionRequest{
			SystemPrompt: themeSystemPrompt,
			UserPrompt:   transcript,
			MaxTokens:    themeResponseTokens,
			Temperature:  0.2,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("extract themes: %w", err)
	}
	themes, err := domain.ParseThemes(raw)
	if err != nil {
		return nil, err
	}
	return themes, nil
}

// analyzeTheme retrieves materials for one theme and synthesises its
// analysis. Failures fall back to a deterministic summary built from
// the theme itself, marked degraded.
func (a *Analyzer) analyzeTheme(ctx context.Context, theme domain.Theme, transcript string) domain.ThemeAnalysis {
	refs := a.retrieveMaterials(ctx, theme)
	excerpt := extractExcerpt(transcript, theme.Keywords)

	detailed, err := withRetry(ctx, "analyze theme", func(ctx context.Context) (string, error) {
		return a.llm.Complete(ctx, driven.CompletionRequest{
			SystemPrompt: themeAnalysisSystemPrompt,
			UserPrompt: fmt.Sprintf(themeAnalysisUserPrompt,
				theme.Name,
				strings.Join(theme.Subthemes, ", "),
				strings.Join(theme.Emotions, ", "),
				excerpt,
				formatReferences(refs)),
			MaxTokens:   analysisResponseTokens,
			Temperature: 0.4,
		})
	})
	if err != nil {
		logger.Warn("analyzer: theme %q analysis failed: %v", theme.Name, err)
		return domain.ThemeAnalysis{
			Theme:               theme,
			DetailedAnalysis:    fallbackThemeAnalysis(theme),
			ReferencedMaterials: refs,
			Degraded:            true,
		}
	}
	return domain.ThemeAnalysis{
		Theme:               theme,
		DetailedAnalysis:    detailed,
		ReferencedMaterials: refs,
	}
}

// retrieveMaterials gathers up to materialsPerTheme references for a
// theme: term matches over stored materials first, topped up by
// semantic search when terms come up short. Retrieval failures cost
// the theme its references, never the analysis.
func (a *Analyzer) retrieveMaterials(ctx context.Context, theme domain.Theme) []domain.MaterialReference {
	refs := a.termMatches(ctx, searchTerms(theme))
	if len(refs) >= materialsPerTheme || a.searcher == nil {
		return refs
	}

	more, err := a.searcher.Search(ctx, theme.Name, materialsPerTheme, a.minSimilarity)
	if err != nil {
		logger.Warn("analyzer: semantic retrieval for theme %q failed: %v", theme.Name, err)
		return refs
	}

	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		seen[r.ID] = true
	}
	for _, r := range more {
		if len(refs) >= materialsPerTheme {
			break
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		refs = append(refs, r)
	}
	return refs
}

// searchTerms builds the retrieval terms for a theme: the theme name
// and its subthemes, supplemented by the extracted keywords.
func searchTerms(theme domain.Theme) []string {
	terms := make([]string, 0, 1+len(theme.Subthemes)+len(theme.Keywords))
	terms = append(terms, theme.Name)
	terms = append(terms, theme.Subthemes...)
	terms = append(terms, theme.Keywords...)
	return terms
}

// termMatches returns materials whose title or categories mention any
// of the terms, at most materialsPerTheme, in store order.
func (a *Analyzer) termMatches(ctx context.Context, terms []string) []domain.MaterialReference {
	if a.store == nil || len(terms) == 0 {
		return nil
	}
	materials, err := a.store.List(ctx)
	if err != nil {
		logger.Warn("analyzer: term retrieval failed: %v", err)
		return nil
	}

	var refs []domain.MaterialReference
	for _, m := range materials {
		if matchesAnyTerm(m, terms) {
			refs = append(refs, m.Ref())
			if len(refs) >= materialsPerTheme {
				break
			}
		}
	}
	return refs
}

func matchesAnyTerm(m domain.Material, terms []string) bool {
	title := strings.ToLower(m.Title)
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if strings.Contains(title, term) {
			return true
		}
		for _, cat := range m.Categories {
			if strings.Contains(strings.ToLower(cat), term) {
				return true
			}
		}
	}
	return false
}

// composeOverview builds the session overview from the ordered theme
// analyses, falling back to a deterministic composition when the
// provider call fails.
func (a *Analyzer) composeOverview(ctx context.Context, analyses []domain.ThemeAnalysis) (string, bool) {
	names := make([]string, len(analyses))
	var details strings.Builder
	for i, ta := range analyses {
		names[i] = ta.Theme.Name
		fmt.Fprintf(&details, "## %s\n\n%s\n\n", ta.Theme.Name, ta.DetailedAnalysis)
	}

	overview, err := withRetry(ctx, "compose overview", func(ctx context.Context) (string, error) {
		return a.llm.Complete(ctx, driven.CompletionRequest{
			SystemPrompt: overviewSystemPrompt,
			UserPrompt:   fmt.Sprintf(overviewUserPrompt, strings.Join(names, ", "), details.String()),
			MaxTokens:    overviewResponseTokens,
			Temperature:  0.4,
		})
	})
	if err != nil {
		logger.Warn("analyzer: overview composition failed, using fallback: %v", err)
		return fallbackOverview(analyses), true
	}
	return overview, false
}

// fallbackThemeAnalysis builds a usable theme summary from the theme
// fields alone.
func fallbackThemeAnalysis(theme domain.Theme) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The theme %q appeared in this session", theme.Name)
	if theme.Frequency != "" {
		fmt.Fprintf(&b, " with %s frequency", theme.Frequency)
	}
	b.WriteString(".")
	if len(theme.Subthemes) > 0 {
		fmt.Fprintf(&b, " Related subthemes: %s.", strings.Join(theme.Subthemes, ", "))
	}
	if len(theme.Emotions) > 0 {
		fmt.Fprintf(&b, " Associated emotions: %s.", strings.Join(theme.Emotions, ", "))
	}
	b.WriteString(" A detailed analysis could not be generated for this theme.")
	return b.String()
}

// fallbackOverview lists the themes in relevance order with their
// analyses, without narrative synthesis.
func fallbackOverview(analyses []domain.ThemeAnalysis) string {
	var b strings.Builder
	b.WriteString("# Session analysis\n\nThemes identified, in order of relevance:\n\n")
	for i, ta := range analyses {
		fmt.Fprintf(&b, "%d. %s (relevance %d)\n", i+1, ta.Theme.Name, ta.Theme.Relevance)
	}
	b.WriteString("\n")
	for _, ta := range analyses {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", ta.Theme.Name, ta.DetailedAnalysis)
	}
	return strings.TrimSpace(b.String())
}

// extractExcerpt returns transcript lines that mention any keyword, up
// to maxExcerptChars. When no line matches, the head of the transcript
// stands in so the prompt always carries session context.
func extractExcerpt(transcript string, keywords []string) string {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	var b strings.Builder
	for _, line := range strings.Split(transcript, "\n") {
		ll := strings.ToLower(line)
		for _, kw := range lowered {
			if strings.Contains(ll, kw) {
				if b.Len()+len(line)+1 > maxExcerptChars {
					return b.String()
				}
				b.WriteString(line)
				b.WriteString("\n")
				break
			}
		}
	}
	if b.Len() > 0 {
		return b.String()
	}
	if len(transcript) > maxExcerptChars {
		return transcript[:maxExcerptChars]
	}
	return transcript
}

// formatReferences renders retrieved materials for a prompt, including
// stored insights when present.
func formatReferences(refs []domain.MaterialReference) string {
	if len(refs) == 0 {
		return "No reference materials available."
	}
	var b strings.Builder
	for i, r := range refs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Material: %s", r.Title)
		if r.Insights != "" {
			fmt.Fprintf(&b, "\n%s", r.Insights)
		}
	}
	return b.String()
}

// collectReferences unions per-theme references, first occurrence
// wins, preserving theme relevance order.
func collectReferences(analyses []domain.ThemeAnalysis) []domain.MaterialReference {
	seen := make(map[string]bool)
	var refs []domain.MaterialReference
	for _, ta := range analyses {
		for _, r := range ta.ReferencedMaterials {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			refs = append(refs, r)
		}
	}
	return refs
}
