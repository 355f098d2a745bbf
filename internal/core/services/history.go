package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// errHistoryUnavailable is returned when no submission store is configured.
var errHistoryUnavailable = errors.New("submission history not configured")

// HistoryService exposes past submissions.
type HistoryService struct {
	store driven.SubmissionStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.SubmissionStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns recent submissions, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.Submission, error) {
	if s.store == nil {
		return nil, errHistoryUnavailable
	}
	subs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// Get returns a single submission.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.Submission, error) {
	if s.store == nil {
		return nil, errHistoryUnavailable
	}
	if id == "" {
		return nil, fmt.Errorf("%w: submission ID is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// Delete removes a submission from history.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return errHistoryUnavailable
	}
	if id == "" {
		return fmt.Errorf("%w: submission ID is required", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// RecordOutput stores where the enhanced file of a submission was saved.
func (s *HistoryService) RecordOutput(ctx context.Context, id, path string) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sub.OutputPath = path
	return s.store.Save(ctx, *sub)
}
