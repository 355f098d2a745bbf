// Package cli provides the command-line interface for tagger.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tagger-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by main.
var (
	workflowService driving.WorkflowService
	settingsService driving.SettingsService
	historyService  driving.HistoryService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tagger",
	Short: "Enrich travel product spreadsheets with AI summaries and interest tags",
	Long: `tagger sends a spreadsheet of travel products to the enrichment service,
which writes an engaging summary and 1-3 holiday interest tags for every
product, and saves the enhanced spreadsheet next to the original.

Run 'tagger process products.xlsx' to enrich a file, or 'tagger watch <dir>'
to enrich every spreadsheet dropped into a directory.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic output")
}

// Config holds the services the commands run against.
type Config struct {
	Workflow driving.WorkflowService
	Settings driving.SettingsService
	History  driving.HistoryService
}

// Configure injects the services used by all commands.
func Configure(cfg Config) {
	workflowService = cfg.Workflow
	settingsService = cfg.Settings
	historyService = cfg.History
}

// SetVersion sets the version reported by 'tagger version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
