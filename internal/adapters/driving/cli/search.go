package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

var (
	searchLimit  int
	searchMinSim float64
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the material corpus",
	Long: `Searches processed materials by semantic similarity.
The query is embedded and compared against stored material embeddings;
only materials scoring above the similarity floor are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinSim, "min-similarity", 0.7, "similarity floor in [0,1]")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	refs, err := searchService.Search(cmd.Context(), args[0], searchLimit, searchMinSim)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(refs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, refs)
}

func outputSearchTable(cmd *cobra.Command, refs []domain.MaterialReference) error {
	if len(refs) == 0 {
		cmd.Println("No materials found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range refs {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Title, r.Similarity)
		cmd.Printf("      ID: %s\n", r.ID)
		if len(r.Categories) > 0 {
			cmd.Printf("      Categories: %v\n", r.Categories)
		}
		cmd.Println()
	}
	return nil
}
