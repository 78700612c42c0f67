package main

import (
	"fmt"
	"os"

	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/config/file"
	ollamaemb "github.com/sessio-labs/sessio-cli/internal/adapters/driven/embedding/ollama"
	openaiemb "github.com/sessio-labs/sessio-cli/internal/adapters/driven/embedding/openai"
	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/extract/plain"
	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/llm/openai"
	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/llm/ratelimit"
	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/storage/sqlite"
	"github.com/sessio-labs/sessio-cli/internal/adapters/driving/cli"
	"github.com/sessio-labs/sessio-cli/internal/chunker"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
	"github.com/sessio-labs/sessio-cli/internal/core/services"
	"github.com/sessio-labs/sessio-cli/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgStore, err := file.NewStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cfgStore.Config()

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening material store: %w", err)
	}
	defer store.Close()

	llm := buildLLM(cfg.LLM)
	embedding := buildEmbedding(cfg.Embedding)

	var insightOpts []services.InsightOption
	if cfg.Analysis.ChunkSize > 0 {
		insightOpts = append(insightOpts,
			services.WithSplitter(chunker.New(chunker.WithChunkSize(cfg.Analysis.ChunkSize))))
	}
	if cfg.Analysis.Concurrency > 0 {
		insightOpts = append(insightOpts,
			services.WithExtractionConcurrency(cfg.Analysis.Concurrency))
	}
	insights := services.NewInsightExtractor(llm, insightOpts...)

	searcher := services.NewSearcher(embedding, store)

	var preOpts []services.PreprocessorOption
	if cfg.Analysis.MaxInputTokens > 0 {
		preOpts = append(preOpts, services.WithMaxInputTokens(cfg.Analysis.MaxInputTokens))
	}
	preprocessor := services.NewPreprocessor(llm, preOpts...)

	analyzerOpts := []services.AnalyzerOption{
		services.WithThemeConcurrency(cfg.Analysis.Concurrency),
		services.WithRetrievalFloor(cfg.Analysis.MinSimilarity),
	}
	analyzer := services.NewAnalyzer(llm, store, searcher, preprocessor, analyzerOpts...)

	trainer := services.NewTrainer(store, embedding, llm, insights)

	cli.SetConfigStore(cfgStore)
	cli.SetServices(analyzer, searcher, trainer, plain.New())
	cli.SetVersion(version)
	return cli.Execute()
}

// buildLLM constructs the completion provider, or nil when none is
// configured. Commands that need one report that at call time.
func buildLLM(cfg file.LLMConfig) driven.LLMService {
	switch cfg.Provider {
	case "":
		return nil
	case "openai":
		svc, err := openai.NewLLMService(openai.LLMConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			logger.Warn("llm provider disabled: %v", err)
			return nil
		}
		return ratelimit.New(svc, cfg.RequestsPerSecond)
	default:
		logger.Warn("unknown llm provider %q, completions disabled", cfg.Provider)
		return nil
	}
}

// buildEmbedding constructs the embedding provider, or nil when none
// is configured.
func buildEmbedding(cfg file.EmbeddingConfig) driven.EmbeddingService {
	switch cfg.Provider {
	case "":
		return nil
	case "ollama":
		return ollamaemb.NewEmbeddingService(ollamaemb.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "openai":
		svc, err := openaiemb.NewEmbeddingService(openaiemb.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			logger.Warn("embedding provider disabled: %v", err)
			return nil
		}
		return svc
	default:
		logger.Warn("unknown embedding provider %q, embeddings disabled", cfg.Provider)
		return nil
	}
}
