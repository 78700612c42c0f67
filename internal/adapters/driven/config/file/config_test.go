package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestStore_UpdatePersists(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	err = store.Update(func(c *Config) {
		c.LLM.Provider = "openai"
		c.LLM.Model = "gpt-4o-mini"
		c.Analysis.MaxInputTokens = 6000
	})
	require.NoError(t, err)

	// A fresh store must see the persisted values.
	reopened, err := NewStore(tmpDir)
	require.NoError(t, err)
	cfg := reopened.Config()
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 6000, cfg.Analysis.MaxInputTokens)
}

func TestStore_MissingFileIsEmptyConfig(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := store.Config()
	assert.Empty(t, cfg.LLM.Provider)
	assert.Zero(t, cfg.Analysis.ChunkSize)
}

func TestStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := NewStore(tmpDir)
	assert.Error(t, err)
}

func TestStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Update(func(c *Config) {
		c.LLM.APIKey = "secret"
	}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
