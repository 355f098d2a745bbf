package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past submissions",
	Long: `Lists spreadsheets sent for enrichment, newest first, with their outcome
and where the enhanced file was saved.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent submissions",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a submission from history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of submissions (0 = all)")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of submissions (0 = all)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	subs, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	if historyJSON {
		return outputJSON(cmd, subs)
	}

	if len(subs) == 0 {
		cmd.Println("No submissions yet.")
		return nil
	}

	cmd.Printf("%-36s  %-19s  %-8s  %8s  %s\n", "ID", "STARTED", "OUTCOME", "PRODUCTS", "FILE")
	for i := range subs {
		sub := &subs[i]
		products := "-"
		if sub.Summary != nil {
			products = fmt.Sprint(sub.Summary.TotalProducts)
		}
		cmd.Printf("%-36s  %-19s  %-8s  %8s  %s\n",
			sub.ID,
			sub.StartedAt.Local().Format("2006-01-02 15:04:05"),
			sub.Phase,
			products,
			sub.FileName,
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	sub, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("submission not found: %s", args[0])
		}
		return fmt.Errorf("failed to get submission: %w", err)
	}

	if historyJSON {
		return outputJSON(cmd, sub)
	}

	cmd.Printf("Submission: %s\n", sub.ID)
	cmd.Printf("  File: %s (%.1f KB)\n", sub.FileName, float64(sub.FileSize)/1024)
	cmd.Printf("  Bucket: %s\n", sub.Bucket)
	cmd.Printf("  Endpoint: %s\n", sub.Endpoint)
	cmd.Printf("  Outcome: %s\n", sub.Phase)
	cmd.Printf("  Started: %s\n", sub.StartedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("  Duration: %s\n", sub.Duration().Round(100*time.Millisecond))
	if sub.Summary != nil {
		printSummary(cmd, sub.Summary)
	}
	if sub.Failure != nil {
		cmd.Printf("  Failure: %s\n", sub.Failure.Error())
	}
	if sub.OutputPath != "" {
		cmd.Printf("  Enhanced file: %s\n", sub.OutputPath)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if err := historyService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	cmd.Printf("Deleted submission %s\n", args[0])
	return nil
}
