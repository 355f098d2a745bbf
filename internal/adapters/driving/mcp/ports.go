package mcp

import (
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Workflow runs enrichment submissions.
	Workflow driving.WorkflowService

	// History exposes past submissions. Optional.
	History driving.HistoryService

	// Settings supplies the default output directory. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workflow == nil {
		return ErrMissingWorkflowService
	}
	return nil
}
