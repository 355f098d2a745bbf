// Command tagger enriches travel product spreadsheets with AI summaries and
// holiday interest tags.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/download"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/enrichment"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
	"github.com/custodia-labs/tagger-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// envAPIToken overrides enrichment.api_token so the token need not be stored.
//
//nolint:gosec // G101: environment variable name, not a credential.
const envAPIToken = "TAGGER_API_TOKEN"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading settings: %v\n", err)
		return err
	}
	if token := os.Getenv(envAPIToken); token != "" {
		settings.Enrichment.APIToken = token
	}

	// History is optional: a broken database must not block processing.
	var submissions driven.SubmissionStore
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("Submission history unavailable: %v", err)
	} else {
		defer store.Close()
		submissions = store.SubmissionStore()
	}

	processor, err := enrichment.NewClient(enrichment.Config{
		Endpoint: settings.Enrichment.Endpoint,
		Timeout:  settings.Enrichment.Timeout,
		APIToken: settings.Enrichment.APIToken,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	downloader := download.NewClient(download.Config{Timeout: settings.Enrichment.Timeout})
	progress := services.NewSimulatedProgress(settings.Progress.Interval)

	workflow := services.NewWorkflow(processor, downloader, progress, submissions, services.WorkflowConfig{
		Enrichment: settings.Enrichment,
		Suffix:     settings.Output.Suffix,
	})

	cli.SetVersion(version)
	cli.Configure(cli.Config{
		Workflow: workflow,
		Settings: settingsService,
		History:  services.NewHistoryService(submissions),
	})

	return cli.Execute()
}
