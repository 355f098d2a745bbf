// Package watch submits spreadsheets dropped into a directory.
// It implements a driving adapter following hexagonal architecture principles.
package watch

import (
	"errors"

	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
)

// ErrMissingWorkflowService is returned when the workflow service is not provided.
var ErrMissingWorkflowService = errors.New("watch: workflow service is required")

// Ports aggregates the driving ports used by the watcher.
type Ports struct {
	// Workflow runs each submission (required).
	Workflow driving.WorkflowService

	// History records where enhanced files were saved. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Workflow == nil {
		return ErrMissingWorkflowService
	}
	return nil
}
