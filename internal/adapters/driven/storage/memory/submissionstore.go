package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
)

// Ensure SubmissionStore implements the interface.
var _ driven.SubmissionStore = (*SubmissionStore)(nil)

// SubmissionStore is an in-memory implementation of driven.SubmissionStore.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[string]domain.Submission
}

// NewSubmissionStore creates a new in-memory submission store.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		submissions: make(map[string]domain.Submission),
	}
}

// Save stores or updates a submission.
func (s *SubmissionStore) Save(_ context.Context, submission domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[submission.ID] = submission
	return nil
}

// Get retrieves a submission by ID.
func (s *SubmissionStore) Get(_ context.Context, id string) (*domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sub, nil
}

// List returns submissions newest first.
func (s *SubmissionStore) List(_ context.Context, limit int) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		result = append(result, sub)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Delete removes a submission.
func (s *SubmissionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.submissions, id)
	return nil
}
