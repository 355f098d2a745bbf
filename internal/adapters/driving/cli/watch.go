package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/watch"
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

var (
	watchBucket    string
	watchOutputDir string
	watchPerMinute int
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Enrich every spreadsheet dropped into a directory",
	Long: `Watches a directory and sends each new or rewritten .xlsx file for
enrichment, one at a time. Enhanced files are saved next to the originals
(or into --output) and are never sent again.

Submissions are paced by --per-minute, default from the watch.per_minute
setting. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchBucket, "bucket", "", "target storage bucket (default from settings)")
	watchCmd.Flags().StringVarP(&watchOutputDir, "output", "o", "", "directory for enhanced files")
	watchCmd.Flags().IntVar(&watchPerMinute, "per-minute", 0, "maximum submissions started per minute")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if workflowService == nil {
		return errors.New("workflow service not configured")
	}

	cfg := watch.Config{
		Dir:       args[0],
		Bucket:    watchBucket,
		OutputDir: resolveOutputDir(watchOutputDir),
		PerMinute: watchPerMinute,
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			cfg.Suffix = settings.Output.Suffix
			if cfg.PerMinute <= 0 {
				cfg.PerMinute = settings.Watch.PerMinute
			}
		}
	}

	w, err := watch.New(&watch.Ports{Workflow: workflowService, History: historyService}, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for spreadsheets. Press Ctrl+C to stop.\n", args[0])
	return w.Run(ctx, func(r watch.Result) {
		printWatchResult(cmd, r)
	})
}

func printWatchResult(cmd *cobra.Command, r watch.Result) {
	switch {
	case r.Err != nil:
		cmd.Printf("✗ %s: %v\n", r.Path, r.Err)
	case r.State.Phase == domain.PhaseFailed:
		cmd.Printf("✗ %s: %s\n", r.Path, r.State.Failure.Error())
	case r.OutputPath != "":
		cmd.Printf("✓ %s -> %s%s\n", r.Path, r.OutputPath, summaryText(r.State.Summary))
	default:
		cmd.Printf("✓ %s: no enhanced file returned%s\n", r.Path, summaryText(r.State.Summary))
	}
}

func summaryText(s *domain.ResultsSummary) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf(" (%d products, %d summaries, %d tagged)", s.TotalProducts, s.SuccessfulSummaries, s.SuccessfulTags)
}
