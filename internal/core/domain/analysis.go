package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ThemeFrequency describes how often a theme surfaces in a session.
type ThemeFrequency string

const (
	FrequencyLow    ThemeFrequency = "low"
	FrequencyMedium ThemeFrequency = "medium"
	FrequencyHigh   ThemeFrequency = "high"
)

// Theme relevance bounds. Values outside this range are a schema violation.
const (
	MinRelevance = 1
	MaxRelevance = 10
)

// Theme is a named topic cluster extracted from a session transcript.
// Themes are produced only by theme extraction; a malformed theme list
// is a hard error because every downstream analysis step depends on it.
type Theme struct {
	Name      string         `json:"theme"`
	Subthemes []string       `json:"subthemes"`
	Keywords  []string       `json:"keywords"`
	Relevance int            `json:"relevance"`
	Emotions  []string       `json:"emotions"`
	Frequency ThemeFrequency `json:"frequency"`
}

// themeList is the wire shape of the theme-extraction response.
type themeList struct {
	Themes []Theme `json:"themes"`
}

// ParseThemes parses and validates a theme-extraction JSON payload.
// Any shape problem is reported as ErrThemeSchema: the response is
// never trusted implicitly.
func ParseThemes(raw string) ([]Theme, error) {
	var list themeList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThemeSchema, err)
	}
	if len(list.Themes) == 0 {
		return nil, fmt.Errorf("%w: no themes in response", ErrThemeSchema)
	}
	for i, th := range list.Themes {
		if strings.TrimSpace(th.Name) == "" {
			return nil, fmt.Errorf("%w: theme %d has no name", ErrThemeSchema, i)
		}
		if th.Relevance < MinRelevance || th.Relevance > MaxRelevance {
			return nil, fmt.Errorf("%w: theme %q relevance %d out of range [%d,%d]",
				ErrThemeSchema, th.Name, th.Relevance, MinRelevance, MaxRelevance)
		}
		switch th.Frequency {
		case FrequencyLow, FrequencyMedium, FrequencyHigh:
		default:
			return nil, fmt.Errorf("%w: theme %q has invalid frequency %q",
				ErrThemeSchema, th.Name, th.Frequency)
		}
	}
	return list.Themes, nil
}

// ThemeAnalysis is the per-theme output of the session pipeline:
// the theme enriched with a detailed analysis and the materials that
// grounded it.
type ThemeAnalysis struct {
	Theme               Theme               `json:"theme"`
	DetailedAnalysis    string              `json:"detailedAnalysis"`
	ReferencedMaterials []MaterialReference `json:"referencedMaterials"`

	// Degraded is true when the detailed analysis is the deterministic
	// fallback rather than provider output.
	Degraded bool `json:"degraded,omitempty"`
}

// AnalysisResult is the final output of the session pipeline.
type AnalysisResult struct {
	// Overview is the narrative session summary.
	Overview string `json:"overview"`

	// ThematicAnalysis holds one entry per extracted theme, sorted by
	// relevance descending (ties keep extraction order).
	ThematicAnalysis []ThemeAnalysis `json:"thematicAnalysis"`

	// ReferencedMaterials is the deduplicated union of materials used
	// across all theme analyses, in first-seen order.
	ReferencedMaterials []MaterialReference `json:"referencedMaterials"`

	// Degraded is true when any stage fell back to deterministic
	// content instead of the primary provider call.
	Degraded bool `json:"degraded,omitempty"`
}
