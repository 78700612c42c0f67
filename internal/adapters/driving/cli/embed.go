package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var embedAll bool

var embedCmd = &cobra.Command{
	Use:   "embed [id]",
	Short: "Regenerate material embeddings",
	Long: `Regenerates the embedding for one material, or with --all sweeps every
processed material that is missing one. Materials without an embedding
never appear in search results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().BoolVar(&embedAll, "all", false, "embed every processed material missing a vector")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	if trainingService == nil {
		return errors.New("training service not configured")
	}

	if embedAll {
		if len(args) > 0 {
			return errors.New("--all does not take a material ID")
		}
		n, err := trainingService.RefreshAllEmbeddings(cmd.Context())
		if err != nil {
			return fmt.Errorf("embedding sweep: %w", err)
		}
		cmd.Printf("Embedded %d material(s).\n", n)
		return nil
	}

	if len(args) == 0 {
		return errors.New("pass a material ID or --all")
	}
	if err := trainingService.RefreshEmbedding(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("embedding material: %w", err)
	}
	cmd.Printf("Embedded %s\n", args[0])
	return nil
}
