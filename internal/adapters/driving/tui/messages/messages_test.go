package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

func TestRunFinished_CarriesRejection(t *testing.T) {
	msg := RunFinished{
		State: domain.WorkflowState{Phase: domain.PhaseSubmitting},
		Err:   domain.ErrSubmissionInProgress,
	}

	assert.ErrorIs(t, msg.Err, domain.ErrSubmissionInProgress)
	assert.Equal(t, domain.PhaseSubmitting, msg.State.Phase)
}

func TestStateChanged_CarriesProgress(t *testing.T) {
	msg := StateChanged{State: domain.WorkflowState{
		Phase:    domain.PhaseSubmitting,
		Progress: domain.Progress{Message: "Uploading file to processing service...", Percent: 16},
	}}

	assert.Equal(t, 16, msg.State.Progress.Percent)
}
