package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/sessio-labs/sessio-cli/internal/core/services"
	"github.com/sessio-labs/sessio-cli/internal/logger"
)

var (
	ingestCategories []string
	ingestTitle      string
	ingestWatch      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file-or-dir]",
	Short: "Add reference materials to the corpus",
	Long: `Extracts text from the given file and registers it as a material.
Small materials are processed immediately; large ones continue in the
background and can be checked with "materials show".

With --watch, the given directory is monitored and new or modified
text files are ingested as they appear.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVarP(&ingestCategories, "category", "c", nil, "category labels for the material")
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "material title (default: file name)")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch a directory and ingest new files")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if trainingService == nil || textExtractor == nil {
		return errors.New("training service not configured")
	}

	if ingestWatch {
		return watchAndIngest(cmd, args[0])
	}
	return ingestFile(cmd.Context(), cmd, args[0])
}

// ingestFile extracts, registers, and processes one file.
func ingestFile(ctx context.Context, cmd *cobra.Command, path string) error {
	content, err := textExtractor.Extract(ctx, path)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%s contains no text", path)
	}

	title := ingestTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	m, err := trainingService.AddMaterial(ctx, title, content, ingestCategories)
	if err != nil {
		return fmt.Errorf("adding material: %w", err)
	}
	cmd.Printf("Added material %s (%s)\n", m.ID, m.Title)

	if services.LargeContent(content) {
		trainingService.ProcessMaterialAsync(m.ID)
		cmd.Println("Large material: processing continues in the background.")
		return nil
	}

	if _, err := trainingService.ProcessMaterial(ctx, m.ID); err != nil {
		return fmt.Errorf("processing material: %w", err)
	}
	cmd.Println("Material processed.")
	return nil
}

// watchAndIngest monitors dir and ingests text files as they are
// created or written. Runs until the context is cancelled.
func watchAndIngest(cmd *cobra.Command, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Printf("Watching %s for new materials. Press Ctrl-C to stop.\n", dir)

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if err := ingestFile(ctx, cmd, event.Name); err != nil {
				logger.Warn("ingest: skipping %s: %v", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("ingest: watcher error: %v", err)
		}
	}
}
