package mcp

import (
	"context"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
)

// mockWorkflow is a mock implementation of driving.WorkflowService.
type mockWorkflow struct {
	state  domain.WorkflowState
	err    error
	file   domain.UploadedFile
	bucket string
	calls  int
}

func (m *mockWorkflow) Run(_ context.Context, file domain.UploadedFile, bucket string) (domain.WorkflowState, error) {
	m.calls++
	m.file = file
	m.bucket = bucket
	return m.state, m.err
}

func (m *mockWorkflow) State() domain.WorkflowState {
	return m.state
}

func (m *mockWorkflow) Subscribe(driving.StateObserver) func() {
	return func() {}
}
