package driving

import (
	"context"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// WorkflowService runs the enrichment workflow for one spreadsheet at a time.
type WorkflowService interface {
	// Run encodes, submits and downloads, blocking until a terminal state.
	// Workflow failures are reported in the returned state. The error is
	// non-nil only when the submission was rejected, e.g. with
	// domain.ErrSubmissionInProgress while another run is in flight.
	Run(ctx context.Context, file domain.UploadedFile, bucket string) (domain.WorkflowState, error)

	// State returns a snapshot of the current state.
	State() domain.WorkflowState

	// Subscribe registers an observer for state changes and returns a
	// function that removes it.
	Subscribe(observer StateObserver) func()
}

// StateObserver is called synchronously on every state change.
// Observers must not call Run.
type StateObserver func(domain.WorkflowState)
