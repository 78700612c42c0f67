package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validThemesJSON = `{
	"themes": [
		{
			"theme": "workplace anxiety",
			"subthemes": ["deadlines", "conflict with manager"],
			"keywords": ["work", "anxiety", "pressure"],
			"relevance": 9,
			"emotions": ["fear", "frustration"],
			"frequency": "high"
		},
		{
			"theme": "sleep",
			"subthemes": [],
			"keywords": ["insomnia"],
			"relevance": 4,
			"emotions": ["fatigue"],
			"frequency": "low"
		}
	]
}`

func TestParseThemes_Valid(t *testing.T) {
	themes, err := ParseThemes(validThemesJSON)
	require.NoError(t, err)
	require.Len(t, themes, 2)

	assert.Equal(t, "workplace anxiety", themes[0].Name)
	assert.Equal(t, 9, themes[0].Relevance)
	assert.Equal(t, FrequencyHigh, themes[0].Frequency)
	assert.Equal(t, []string{"work", "anxiety", "pressure"}, themes[0].Keywords)
	assert.Equal(t, FrequencyLow, themes[1].Frequency)
}

func TestParseThemes_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the session was mostly about anxiety"},
		{"empty object", `{}`},
		{"empty theme list", `{"themes": []}`},
		{"missing name", `{"themes":[{"theme":"","relevance":5,"frequency":"low"}]}`},
		{"relevance zero", `{"themes":[{"theme":"x","relevance":0,"frequency":"low"}]}`},
		{"relevance too high", `{"themes":[{"theme":"x","relevance":11,"frequency":"low"}]}`},
		{"bad frequency", `{"themes":[{"theme":"x","relevance":5,"frequency":"sometimes"}]}`},
		{"relevance as string", `{"themes":[{"theme":"x","relevance":"5","frequency":"low"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseThemes(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrThemeSchema)
		})
	}
}

func TestTransient(t *testing.T) {
	assert.Nil(t, Transient(nil))

	err := Transient(assert.AnError)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, assert.AnError)

	assert.False(t, IsTransient(assert.AnError))
	assert.False(t, IsTransient(nil))
}

func TestStageResult(t *testing.T) {
	ok := Success("value")
	assert.Equal(t, StageSuccess, ok.Status)
	assert.True(t, ok.Ok())

	deg := Degraded("fallback", "provider timeout")
	assert.Equal(t, StageDegraded, deg.Status)
	assert.True(t, deg.Ok())
	assert.Equal(t, "provider timeout", deg.Reason)

	failed := Failed[string](assert.AnError)
	assert.False(t, failed.Ok())
	assert.ErrorIs(t, failed.Err, assert.AnError)
}
