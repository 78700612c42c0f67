package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/config/file"
)

func setupTestConfig(t *testing.T) *file.Store {
	t.Helper()
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	prev := configStore
	SetConfigStore(store)
	t.Cleanup(func() { configStore = prev })
	return store
}

func TestConfigShowCmd_MasksAPIKey(t *testing.T) {
	store := setupTestConfig(t)
	require.NoError(t, store.Update(func(cfg *file.Config) {
		cfg.LLM.Provider = "openai"
		cfg.LLM.APIKey = "sk-test-key-1234"
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "****1234")
	assert.NotContains(t, buf.String(), "sk-test-key-1234")
}

func TestConfigSetCmd_StringKey(t *testing.T) {
	store := setupTestConfig(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "embedding.provider", "ollama"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "ollama", store.Config().Embedding.Provider)
}

func TestConfigSetCmd_NumericKey(t *testing.T) {
	store := setupTestConfig(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"config", "set", "analysis.chunk_size", "2000"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 2000, store.Config().Analysis.ChunkSize)
}

func TestConfigSetCmd_RejectsBadNumber(t *testing.T) {
	store := setupTestConfig(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"config", "set", "analysis.chunk_size", "lots"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorContains(t, err, "expected a number")
	assert.Zero(t, store.Config().Analysis.ChunkSize)
}

func TestConfigSetCmd_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"config", "set", "llm.nope", "x"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "unknown key")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("abcd"))
	assert.Equal(t, "****6789", maskAPIKey("sk-123456789"))
}
