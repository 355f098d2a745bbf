package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tagger-cli/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the enrichment endpoint, target bucket, output location
and other options.

Settings are stored in ~/.tagger/config.toml. Use subcommands to change a
single value or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a single setting",
	Long: `Change a single setting. An empty value for enrichment.api_token removes it;
omitting the value for enrichment.api_token prompts for it without echo.

Keys:
  enrichment.endpoint          processing endpoint URL
  enrichment.bucket            target storage bucket
  enrichment.timeout_seconds   upper bound on processing time
  enrichment.api_token         bearer token sent to the endpoint
  output.suffix                inserted before the extension of enhanced files
  output.dir                   directory for enhanced files (default: next to input)
  progress.interval_ms         how long each progress step is shown
  watch.per_minute             submissions started per minute in watch mode`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the enrichment service step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Enrichment]")
	cmd.Printf("  Endpoint: %s\n", settings.Enrichment.Endpoint)
	cmd.Printf("  Bucket: %s\n", settings.Enrichment.Bucket)
	cmd.Printf("  Timeout: %s\n", settings.Enrichment.Timeout)
	if settings.Enrichment.APIToken != "" {
		cmd.Printf("  API Token: %s\n", maskAPIKey(settings.Enrichment.APIToken))
	} else {
		cmd.Printf("  API Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Suffix: %s\n", settings.Output.Suffix)
	if settings.Output.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Output.Dir)
	} else {
		cmd.Printf("  Directory: (next to input file)\n")
	}
	cmd.Println()

	cmd.Println("[Progress]")
	cmd.Printf("  Step interval: %s\n", settings.Progress.Interval)
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Rate: %d per minute\n", settings.Watch.PerMinute)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'tagger settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == services.KeyAPIToken:
		cmd.Print("Enter API token: ")
		value = readSecret(cmd.InOrStdin(), bufio.NewReader(cmd.InOrStdin()))
		cmd.Println()
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	switch {
	case key == services.KeyAPIToken && value == "":
		cmd.Printf("%s removed\n", key)
	case key == services.KeyAPIToken:
		cmd.Printf("%s set to %s\n", key, maskAPIKey(value))
	default:
		cmd.Printf("%s set to %s\n", key, value)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Tagger Settings Wizard")
	cmd.Println("======================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)

	steps := []struct {
		key     string
		label   string
		current string
	}{
		{services.KeyEndpoint, "Enrichment endpoint", settings.Enrichment.Endpoint},
		{services.KeyBucket, "Target bucket", settings.Enrichment.Bucket},
		{services.KeyTimeoutSeconds, "Timeout in seconds", fmt.Sprint(int(settings.Enrichment.Timeout / time.Second))},
		{services.KeyOutputDir, "Output directory (empty: next to input)", settings.Output.Dir},
	}

	for _, step := range steps {
		cmd.Printf("%s [%s]: ", step.label, step.current)
		input := readLine(reader)
		if input == "" || input == step.current {
			continue
		}
		if err := settingsService.Set(step.key, input); err != nil {
			return fmt.Errorf("failed to set %s: %w", step.key, err)
		}
	}

	cmd.Print("API token (Enter to keep): ")
	token := readSecret(in, reader)
	cmd.Println()
	if token != "" {
		if err := settingsService.Set(services.KeyAPIToken, token); err != nil {
			return fmt.Errorf("failed to set %s: %w", services.KeyAPIToken, err)
		}
	}

	cmd.Println()
	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n') //nolint:errcheck // EOF yields what was read
	return strings.TrimSpace(input)
}

// readSecret reads a secret without echo when in is a terminal, and from
// reader otherwise.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: fd fits in int
		password, err := term.ReadPassword(int(f.Fd())) //nolint:gosec // G115: fd fits in int
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
