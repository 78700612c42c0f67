package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	processAsync  bool
	processCancel bool
)

var processCmd = &cobra.Command{
	Use:   "process [id]",
	Short: "Run or cancel insight extraction for a material",
	Long: `Runs the document pipeline for a material: the content is chunked,
insights are extracted per chunk, and the chunk notes are merged into
one analysis. Use --async for large materials and --cancel to stop a
running background job.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processAsync, "async", false, "process in the background")
	processCmd.Flags().BoolVar(&processCancel, "cancel", false, "cancel background processing")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if trainingService == nil {
		return errors.New("training service not configured")
	}
	id := args[0]

	if processCancel {
		if trainingService.CancelProcessing(id) {
			cmd.Printf("Cancellation requested for %s\n", id)
		} else {
			cmd.Printf("No background job running for %s\n", id)
		}
		return nil
	}

	if processAsync {
		trainingService.ProcessMaterialAsync(id)
		cmd.Printf("Processing %s in the background.\n", id)
		return nil
	}

	insights, err := trainingService.ProcessMaterial(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("processing material: %w", err)
	}
	cmd.Println(insights)
	return nil
}
