// Package tui provides the interactive progress screen for a submission.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Workflow runs the submission and publishes its state.
	Workflow driving.WorkflowService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Workflow == nil {
		return ErrMissingWorkflowService
	}
	return nil
}
