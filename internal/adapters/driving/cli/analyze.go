package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [transcript-file]",
	Short: "Analyse a session transcript",
	Long: `Runs the full session analysis: theme extraction, per-theme material
retrieval, and a composed overview. Pass "-" to read the transcript
from stdin.

Long transcripts are condensed automatically before analysis. When the
language model is unavailable mid-run, later stages fall back to
deterministic output and the result is marked degraded.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	transcript, err := readTranscript(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := analysisService.AnalyzeSession(cmd.Context(), transcript)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal analysis: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputAnalysis(cmd, result)
	return nil
}

// readTranscript loads the transcript from a file, or stdin for "-".
func readTranscript(cmd *cobra.Command, arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}

func outputAnalysis(cmd *cobra.Command, result *domain.AnalysisResult) {
	if result.Degraded {
		cmd.Println("Note: parts of this analysis used fallback output.")
		cmd.Println()
	}

	cmd.Println(result.Overview)
	cmd.Println()

	for _, ta := range result.ThematicAnalysis {
		cmd.Printf("--- %s (relevance %d, %s frequency) ---\n",
			ta.Theme.Name, ta.Theme.Relevance, ta.Theme.Frequency)
		cmd.Println(ta.DetailedAnalysis)
		if len(ta.ReferencedMaterials) > 0 {
			cmd.Println("Materials:")
			for _, r := range ta.ReferencedMaterials {
				cmd.Printf("  - %s\n", r.Title)
			}
		}
		cmd.Println()
	}

	if len(result.ReferencedMaterials) > 0 {
		cmd.Println("Referenced materials:")
		for _, r := range result.ReferencedMaterials {
			cmd.Printf("  - %s (%s)\n", r.Title, r.ID)
		}
	}
}
