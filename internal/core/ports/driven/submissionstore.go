package driven

import (
	"context"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// SubmissionStore persists finished submissions.
type SubmissionStore interface {
	// Save stores or updates a submission.
	Save(ctx context.Context, submission domain.Submission) error

	// Get retrieves a submission by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Submission, error)

	// List returns the most recent submissions, newest first.
	// A limit of 0 or less returns all submissions.
	List(ctx context.Context, limit int) ([]domain.Submission, error)

	// Delete removes a submission.
	Delete(ctx context.Context, id string) error
}
