// Package file provides file-based configuration for the CLI.
// Settings are stored as TOML in the sessio config directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all user-facing settings.
type Config struct {
	LLM       LLMConfig       `toml:"llm"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Analysis  AnalysisConfig  `toml:"analysis"`
	Storage   StorageConfig   `toml:"storage"`
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	// Provider is "openai" or empty to disable completions.
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`

	// RequestsPerSecond caps provider calls. Zero uses the default.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "ollama", "openai", or empty to disable embeddings.
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
}

// AnalysisConfig tunes the analysis pipelines.
type AnalysisConfig struct {
	// MaxInputTokens is the transcript budget before reduction.
	MaxInputTokens int `toml:"max_input_tokens"`

	// ChunkSize is the document chunk size in characters.
	ChunkSize int `toml:"chunk_size"`

	// Concurrency bounds parallel provider calls per pipeline.
	Concurrency int `toml:"concurrency"`

	// MinSimilarity is the search relevance floor.
	MinSimilarity float64 `toml:"min_similarity"`
}

// StorageConfig locates the material database.
type StorageConfig struct {
	// DataDir is the database directory. Empty uses ~/.sessio/data.
	DataDir string `toml:"data_dir"`
}

// Store loads and persists the TOML config file.
type Store struct {
	mu       sync.RWMutex
	filePath string
	cfg      Config
}

// NewStore creates a config store. If configDir is empty, defaults to
// ~/.sessio/config.toml.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".sessio")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &Store{
		filePath: filepath.Join(configDir, "config.toml"),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.filePath
}

// Config returns a copy of the current settings.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update applies fn to the settings and persists the result.
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cfg)
	return s.save()
}

// Load reads the config file from disk, replacing in-memory settings.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	s.cfg = cfg
	return nil
}

// save writes the settings to disk. Callers hold the lock.
func (s *Store) save() error {
	data, err := toml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	// Config may carry API keys, so keep it private to the owner.
	return os.WriteFile(s.filePath, data, 0600)
}
