package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Manage the material corpus",
}

var materialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all materials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if trainingService == nil {
			return errors.New("training service not configured")
		}
		materials, err := trainingService.ListMaterials(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing materials: %w", err)
		}
		if len(materials) == 0 {
			cmd.Println("No materials in the corpus.")
			return nil
		}
		for _, m := range materials {
			embedded := " "
			if m.Embedding != nil {
				embedded = "E"
			}
			cmd.Printf("%-36s  %-10s %s  %s\n", m.ID, m.Status, embedded, m.Title)
		}
		return nil
	},
}

var materialsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one material, including its insights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trainingService == nil {
			return errors.New("training service not configured")
		}
		m, err := trainingService.GetMaterial(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting material: %w", err)
		}
		cmd.Printf("Title:      %s\n", m.Title)
		cmd.Printf("Status:     %s\n", m.Status)
		if len(m.Categories) > 0 {
			cmd.Printf("Categories: %v\n", m.Categories)
		}
		cmd.Printf("Embedded:   %t\n", m.Embedding != nil)
		cmd.Printf("Updated:    %s\n", m.UpdatedAt.Format("2006-01-02 15:04:05"))
		if m.Insights != "" {
			cmd.Println()
			cmd.Println(m.Insights)
		}
		return nil
	},
}

var materialsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a material from the corpus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trainingService == nil {
			return errors.New("training service not configured")
		}
		if err := trainingService.DeleteMaterial(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting material: %w", err)
		}
		cmd.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	materialsCmd.AddCommand(materialsListCmd)
	materialsCmd.AddCommand(materialsShowCmd)
	materialsCmd.AddCommand(materialsDeleteCmd)
	rootCmd.AddCommand(materialsCmd)
}
