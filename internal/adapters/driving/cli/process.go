package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
	"github.com/custodia-labs/tagger-cli/internal/logger"
)

var (
	processBucket    string
	processOutputDir string
	processJSON      bool
	processNoTUI     bool
)

// addedNotice describes what the enrichment service writes into the file.
const addedNotice = `What's been added to your file:
  - Generated Summary: an engaging 200-300 word description for each product
  - Holiday Interest: 1-3 relevant tags like "Adventure", "Beach", "Culture & History"
  - Smart Logic: cruise products never get the "Road Trip & Multistop" tag`

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Enrich a spreadsheet of travel products",
	Long: `Sends an .xlsx file of travel products to the enrichment service and saves
the enhanced file, named <name>_enhanced.xlsx, next to the original.

Processing usually takes a few minutes. Progress is shown interactively when
the output is a terminal; use --no-tui for plain output or --json for the
final state as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processBucket, "bucket", "", "target storage bucket (default from settings)")
	processCmd.Flags().StringVarP(&processOutputDir, "output", "o", "", "directory for the enhanced file")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the final state as JSON")
	processCmd.Flags().BoolVar(&processNoTUI, "no-tui", false, "print plain progress lines")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if workflowService == nil {
		return errors.New("workflow service not configured")
	}

	path := args[0]
	file, err := services.LoadFile(path)
	if err != nil {
		return err
	}
	if !services.IsSpreadsheet(file.Name) {
		cmd.PrintErrf("Warning: %s is not an %s file; sending anyway\n", file.Name, domain.SpreadsheetExtension)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var state domain.WorkflowState
	if useTUI() {
		state, err = processInteractive(ctx, file)
	} else {
		state, err = processPlain(ctx, cmd, file)
	}
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	if state.Phase == domain.PhaseReady && state.HasArtifact() {
		out, err := services.SaveArtifact(state.Artifact, path, resolveOutputDir(processOutputDir))
		if err != nil {
			return err
		}
		recordOutput(ctx, state.SubmissionID, out)
	}

	if processJSON {
		if err := outputJSON(cmd, state); err != nil {
			return err
		}
	} else {
		printOutcome(cmd, state)
	}

	if state.Phase == domain.PhaseFailed {
		return fmt.Errorf("processing %s failed: %w", file.Name, state.Failure)
	}
	return nil
}

// useTUI reports whether the interactive progress screen should be shown.
func useTUI() bool {
	if processJSON || processNoTUI {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: fd fits in int
}

// processInteractive runs the submission behind the progress screen. Log
// lines are held back until the screen exits.
func processInteractive(ctx context.Context, file domain.UploadedFile) (domain.WorkflowState, error) {
	var logs bytes.Buffer
	restore := logger.Redirect(&logs)
	state, err := tui.Run(ctx, &tui.Ports{Workflow: workflowService}, file, processBucket)
	restore()
	_, _ = os.Stderr.Write(logs.Bytes())
	return state, err
}

// processPlain runs the submission and prints one line per progress step.
func processPlain(ctx context.Context, cmd *cobra.Command, file domain.UploadedFile) (domain.WorkflowState, error) {
	if !processJSON {
		cmd.Printf("Processing %s (%.1f KB)\n", file.Name, float64(file.Size())/1024)
	}

	var last string
	unsubscribe := workflowService.Subscribe(func(s domain.WorkflowState) {
		if processJSON || s.Progress.Message == "" || s.Progress.Message == last {
			return
		}
		last = s.Progress.Message
		cmd.Printf("[%3d%%] %s\n", s.Progress.Percent, s.Progress.Message)
	})
	defer unsubscribe()

	return workflowService.Run(ctx, file, processBucket)
}

func printOutcome(cmd *cobra.Command, state domain.WorkflowState) {
	cmd.Println()

	if state.Phase == domain.PhaseFailed {
		cmd.Println("Processing failed")
		if state.Summary != nil {
			printSummary(cmd, state.Summary)
		}
		if state.Failure != nil && state.Failure.Body != "" && state.Failure.Body != state.Failure.Message {
			cmd.Printf("Response body: %s\n", state.Failure.Body)
		}
		return
	}

	cmd.Println("Processing complete")
	if state.Summary != nil {
		printSummary(cmd, state.Summary)
	}
	cmd.Println()

	if !state.HasArtifact() {
		cmd.Println("No enhanced file was returned.")
		return
	}
	cmd.Printf("Enhanced file saved to %s\n", state.Artifact.Path)
	cmd.Println()
	cmd.Println(addedNotice)
}

func printSummary(cmd *cobra.Command, s *domain.ResultsSummary) {
	cmd.Printf("  Products processed:  %d\n", s.TotalProducts)
	cmd.Printf("  Summaries generated: %d\n", s.SuccessfulSummaries)
	cmd.Printf("  Products tagged:     %d\n", s.SuccessfulTags)
}

// resolveOutputDir prefers the flag, then output.dir from settings. Empty
// means next to the input file.
func resolveOutputDir(flag string) string {
	if flag != "" {
		return flag
	}
	if settingsService == nil {
		return ""
	}
	settings, err := settingsService.Get()
	if err != nil {
		return ""
	}
	return settings.Output.Dir
}

// recordOutput stores the saved path in history. Failures are only logged.
func recordOutput(ctx context.Context, id, path string) {
	if historyService == nil || id == "" {
		return
	}
	if err := historyService.RecordOutput(ctx, id, path); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Failed to record output path: %v", err)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
