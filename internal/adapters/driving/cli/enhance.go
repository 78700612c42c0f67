package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var enhanceCategory string

var enhanceCmd = &cobra.Command{
	Use:   "enhance [transcript-file]",
	Short: "Analyse a session against one material category",
	Long: `Analyses a session transcript using the insights of processed
materials in the given category. Pass "-" to read the transcript from
stdin. When the language model is unavailable, the material insights
are printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnhance,
}

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceCategory, "category", "c", "", "material category to analyse against (required)")
	_ = enhanceCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(enhanceCmd)
}

func runEnhance(cmd *cobra.Command, args []string) error {
	if trainingService == nil {
		return errors.New("training service not configured")
	}

	transcript, err := readTranscript(cmd, args[0])
	if err != nil {
		return err
	}

	analysis, err := trainingService.EnhanceSessionAnalysis(cmd.Context(), transcript, enhanceCategory)
	if err != nil {
		return fmt.Errorf("enhanced analysis failed: %w", err)
	}
	cmd.Println(analysis)
	return nil
}
