// Package messages defines Bubbletea message types for the progress screen.
package messages

import (
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// StateChanged carries a workflow state published while a submission runs.
type StateChanged struct {
	State domain.WorkflowState
}

// RunFinished is sent when the workflow's Run returns.
type RunFinished struct {
	State domain.WorkflowState

	// Err is set only when the submission was rejected.
	Err error
}
