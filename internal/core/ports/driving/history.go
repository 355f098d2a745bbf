package driving

import (
	"context"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// HistoryService exposes past submissions.
type HistoryService interface {
	// List returns recent submissions, newest first.
	List(ctx context.Context, limit int) ([]domain.Submission, error)

	// Get returns a single submission.
	Get(ctx context.Context, id string) (*domain.Submission, error)

	// Delete removes a submission from history.
	Delete(ctx context.Context, id string) error

	// RecordOutput stores where the enhanced file of a submission was saved.
	RecordOutput(ctx context.Context, id, path string) error
}
