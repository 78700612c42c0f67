package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/config/file"
)

// configStore is wired by SetConfigStore before Execute.
var configStore *file.Store

// SetConfigStore wires the configuration store used by the config
// commands.
func SetConfigStore(s *file.Store) {
	configStore = s
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and configure providers, analysis tuning, and storage.

Changes take effect on the next invocation.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by key.

Available keys:
  llm.provider             - "openai" or empty to disable completions
  llm.api_key              - completion provider API key
  llm.base_url             - completion provider base URL
  llm.model                - completion model name
  embedding.provider       - "ollama", "openai", or empty to disable
  embedding.api_key        - embedding provider API key
  embedding.base_url       - embedding provider base URL
  embedding.model          - embedding model name
  analysis.max_input_tokens - transcript budget before reduction
  analysis.chunk_size      - document chunk size in characters
  analysis.concurrency     - parallel provider calls per pipeline
  storage.data_dir         - database directory`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	cfg := configStore.Config()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", orUnset(cfg.LLM.Provider))
	cmd.Printf("  Model:    %s\n", orUnset(cfg.LLM.Model))
	cmd.Printf("  API Key:  %s\n", maskAPIKey(cfg.LLM.APIKey))
	if cfg.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", cfg.LLM.BaseURL)
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", orUnset(cfg.Embedding.Provider))
	cmd.Printf("  Model:    %s\n", orUnset(cfg.Embedding.Model))
	cmd.Printf("  API Key:  %s\n", maskAPIKey(cfg.Embedding.APIKey))
	if cfg.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", cfg.Embedding.BaseURL)
	}
	cmd.Println()

	cmd.Println("[Analysis]")
	cmd.Printf("  Max input tokens: %s\n", orDefault(cfg.Analysis.MaxInputTokens))
	cmd.Printf("  Chunk size:       %s\n", orDefault(cfg.Analysis.ChunkSize))
	cmd.Printf("  Concurrency:      %s\n", orDefault(cfg.Analysis.Concurrency))
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data dir: %s\n", orUnset(cfg.Storage.DataDir))
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	key, value := args[0], args[1]

	apply, err := configSetter(key, value)
	if err != nil {
		return err
	}
	if err := configStore.Update(apply); err != nil {
		return err
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// configSetter resolves a key to a mutation, validating the value
// before anything touches disk.
func configSetter(key, value string) (func(*file.Config), error) {
	stringFields := map[string]func(*file.Config) *string{
		"llm.provider":       func(c *file.Config) *string { return &c.LLM.Provider },
		"llm.api_key":        func(c *file.Config) *string { return &c.LLM.APIKey },
		"llm.base_url":       func(c *file.Config) *string { return &c.LLM.BaseURL },
		"llm.model":          func(c *file.Config) *string { return &c.LLM.Model },
		"embedding.provider": func(c *file.Config) *string { return &c.Embedding.Provider },
		"embedding.api_key":  func(c *file.Config) *string { return &c.Embedding.APIKey },
		"embedding.base_url": func(c *file.Config) *string { return &c.Embedding.BaseURL },
		"embedding.model":    func(c *file.Config) *string { return &c.Embedding.Model },
		"storage.data_dir":   func(c *file.Config) *string { return &c.Storage.DataDir },
	}
	if field, ok := stringFields[key]; ok {
		return func(c *file.Config) { *field(c) = value }, nil
	}

	intFields := map[string]func(*file.Config) *int{
		"analysis.max_input_tokens": func(c *file.Config) *int { return &c.Analysis.MaxInputTokens },
		"analysis.chunk_size":       func(c *file.Config) *int { return &c.Analysis.ChunkSize },
		"analysis.concurrency":      func(c *file.Config) *int { return &c.Analysis.Concurrency },
	}
	if field, ok := intFields[key]; ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected a number for %s, got %q", key, value)
		}
		return func(c *file.Config) { *field(c) = n }, nil
	}

	return nil, fmt.Errorf("unknown key %q", key)
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func orDefault(n int) string {
	if n == 0 {
		return "(default)"
	}
	return strconv.Itoa(n)
}

// maskAPIKey hides all but the last four characters of a key.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
