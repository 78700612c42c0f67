// Package cli implements the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driving"
	"github.com/sessio-labs/sessio-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Wired by SetServices before Execute;
// commands that need an unwired service fail with a clear error.
var (
	analysisService driving.AnalysisService
	searchService   driving.SearchService
	trainingService driving.TrainingService
	textExtractor   driven.TextExtractor
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sessio",
	Short: "Analyse therapy sessions against a reference-material corpus",
	Long: `Sessio ingests reference materials (lectures, manuals, supervision
notes), extracts document-level insights, and analyses session
transcripts thematically against that corpus.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// SetServices wires the service implementations used by the commands.
func SetServices(analysis driving.AnalysisService, search driving.SearchService,
	training driving.TrainingService, extractor driven.TextExtractor) {
	analysisService = analysis
	searchService = search
	trainingService = training
	textExtractor = extractor
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
