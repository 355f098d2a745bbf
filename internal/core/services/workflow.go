package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tagger-cli/internal/logger"
)

// Ensure Workflow implements the interface.
var _ driving.WorkflowService = (*Workflow)(nil)

// debugPreviewLength is how much of the encoded payload verbose mode prints.
const debugPreviewLength = 50

// MessageNoResult is the failure message when a processor reports nothing.
const MessageNoResult = "processing service returned no result"

// WorkflowConfig holds per-instance workflow options.
type WorkflowConfig struct {
	// Enrichment supplies the configured bucket for bucket resolution.
	Enrichment domain.EnrichmentSettings

	// Suffix is inserted into the enhanced file name.
	Suffix string
}

// Workflow sequences encoding, submission and download for one file at a
// time and owns the resulting WorkflowState.
type Workflow struct {
	processor  driven.Processor
	downloader driven.Downloader
	progress   driven.ProgressReporter
	store      driven.SubmissionStore
	config     WorkflowConfig

	mu           sync.RWMutex
	inFlight     bool
	state        domain.WorkflowState
	observers    map[int]driving.StateObserver
	nextObserver int

	now   func() time.Time
	newID func() string
}

// NewWorkflow creates a workflow. The progress reporter and submission
// store are optional and may be nil.
func NewWorkflow(
	processor driven.Processor,
	downloader driven.Downloader,
	progress driven.ProgressReporter,
	store driven.SubmissionStore,
	config WorkflowConfig,
) *Workflow {
	return &Workflow{
		processor:  processor,
		downloader: downloader,
		progress:   progress,
		store:      store,
		config:     config,
		state:      domain.WorkflowState{Phase: domain.PhaseIdle},
		observers:  make(map[int]driving.StateObserver),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// State returns a deep copy of the current state.
func (w *Workflow) State() domain.WorkflowState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.Clone()
}

// Subscribe registers an observer for state changes.
func (w *Workflow) Subscribe(observer driving.StateObserver) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextObserver
	w.nextObserver++
	w.observers[id] = observer

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.observers, id)
	}
}

// Run processes one file and blocks until Ready or Failed.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (w *Workflow) Run(ctx context.Context, file domain.UploadedFile, bucket string) (domain.WorkflowState, error) {
	if !w.begin() {
		return w.State(), domain.ErrSubmissionInProgress
	}
	defer w.end()

	started := w.now()
	bucket = w.config.Enrichment.ResolveBucket(bucket)

	// 1. Encode
	w.transition(domain.PhaseEncoding, func(s *domain.WorkflowState) {
		*s = domain.WorkflowState{
			Phase:        domain.PhaseEncoding,
			SubmissionID: w.newID(),
			FileName:     file.Name,
			Bucket:       bucket,
		}
	})

	logger.Section("Encoding")
	payload, err := Encode(file.Data)
	if err != nil {
		logger.Warn("Encoding %s failed: %v", file.Name, err)
		return w.fail(ctx, file, started, &domain.FailureInfo{
			Kind:    domain.FailureEncoding,
			Message: err.Error(),
		}), nil
	}
	logger.Debug("Base64 length: %d characters", len(payload.Content))
	logger.Debug("First %d chars: %s...", debugPreviewLength, preview(payload.Content, debugPreviewLength))

	// 2. Submit, with cosmetic progress first
	w.transition(domain.PhaseSubmitting, nil)
	logger.Section("Submitting")
	logger.Debug("Sending file '%s' to bucket '%s'", file.Name, bucket)

	if w.progress != nil {
		err := w.progress.Emit(ctx, func(p domain.Progress) {
			w.transition(domain.PhaseSubmitting, func(s *domain.WorkflowState) {
				s.Progress = p
			})
		})
		if err != nil {
			logger.Debug("Progress display stopped: %v", err)
		}
	}

	w.transition(domain.PhaseAwaitingResult, nil)
	result := w.processor.Submit(ctx, payload, file.Name, bucket)
	w.update(func(s *domain.WorkflowState) {
		s.Progress = ProgressComplete
	})

	if result.Failure != nil {
		logger.Warn("Processing failed: %v", result.Failure)
		return w.fail(ctx, file, started, result.Failure), nil
	}
	if result.Success == nil {
		logger.Warn("Processor returned neither success nor failure")
		return w.fail(ctx, file, started, &domain.FailureInfo{
			Kind:    domain.FailureRemote,
			Message: MessageNoResult,
		}), nil
	}

	summary := result.Success.Summary
	logger.Info("Processed %d products (%d summaries, %d tags)",
		summary.TotalProducts, summary.SuccessfulSummaries, summary.SuccessfulTags)

	// 3. Download, if the service told us where
	if result.Success.DownloadURL == "" {
		logger.Info("No download URL returned; summary only")
		return w.succeed(ctx, file, started, &summary, nil), nil
	}

	w.transition(domain.PhaseDownloading, func(s *domain.WorkflowState) {
		s.Summary = &summary
	})
	logger.Section("Downloading")

	data, err := w.downloader.Fetch(ctx, result.Success.DownloadURL)
	if err != nil {
		logger.Warn("Download failed: %v", err)
		return w.fail(ctx, file, started, downloadFailure(err)), nil
	}

	artifact := &domain.DownloadedArtifact{
		Data:              data,
		SuggestedFileName: SuggestedFileName(file.Name, w.config.Suffix),
	}
	logger.Debug("Downloaded %d bytes as %s", len(data), artifact.SuggestedFileName)

	return w.succeed(ctx, file, started, &summary, artifact), nil
}

// begin claims the single submission slot.
func (w *Workflow) begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight {
		return false
	}
	w.inFlight = true
	return true
}

func (w *Workflow) end() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
}

// transition moves to phase, applies mutate and notifies observers.
// An illegal transition is a programming error.
func (w *Workflow) transition(to domain.Phase, mutate func(*domain.WorkflowState)) {
	w.mu.Lock()
	from := w.state.Phase
	if !domain.CanTransition(from, to) {
		w.mu.Unlock()
		panic(fmt.Sprintf("workflow: illegal transition %s -> %s", from, to))
	}
	if mutate != nil {
		mutate(&w.state)
	}
	w.state.Phase = to
	snapshot, observers := w.state.Clone(), w.observerList()
	w.mu.Unlock()

	notify(observers, snapshot)
}

// update changes state without changing phase.
func (w *Workflow) update(mutate func(*domain.WorkflowState)) {
	w.mu.Lock()
	mutate(&w.state)
	snapshot, observers := w.state.Clone(), w.observerList()
	w.mu.Unlock()

	notify(observers, snapshot)
}

// observerList copies the observers (caller must hold lock).
func (w *Workflow) observerList() []driving.StateObserver {
	list := make([]driving.StateObserver, 0, len(w.observers))
	for _, o := range w.observers {
		list = append(list, o)
	}
	return list
}

// notify gives each observer its own copy.
func notify(observers []driving.StateObserver, state domain.WorkflowState) {
	for _, o := range observers {
		o(state.Clone())
	}
}

func (w *Workflow) fail(
	ctx context.Context,
	file domain.UploadedFile,
	started time.Time,
	failure *domain.FailureInfo,
) domain.WorkflowState {
	w.transition(domain.PhaseFailed, func(s *domain.WorkflowState) {
		s.Failure = failure
	})
	return w.record(ctx, file, started)
}

func (w *Workflow) succeed(
	ctx context.Context,
	file domain.UploadedFile,
	started time.Time,
	summary *domain.ResultsSummary,
	artifact *domain.DownloadedArtifact,
) domain.WorkflowState {
	w.transition(domain.PhaseReady, func(s *domain.WorkflowState) {
		s.Summary = summary
		s.Artifact = artifact
	})
	return w.record(ctx, file, started)
}

// record persists the terminal state and returns it.
// History is best effort and never changes the outcome.
func (w *Workflow) record(ctx context.Context, file domain.UploadedFile, started time.Time) domain.WorkflowState {
	state := w.State()
	if w.store == nil {
		return state
	}

	submission := domain.Submission{
		ID:         state.SubmissionID,
		FileName:   file.Name,
		FileSize:   file.Size(),
		Bucket:     state.Bucket,
		Endpoint:   w.processor.Endpoint(),
		Phase:      state.Phase,
		Summary:    state.Summary,
		Failure:    state.Failure,
		StartedAt:  started,
		FinishedAt: w.now(),
	}
	if err := w.store.Save(context.WithoutCancel(ctx), submission); err != nil {
		logger.Warn("Failed to record submission %s: %v", submission.ID, err)
	}
	return state
}

// downloadFailure converts a downloader error into failure detail.
func downloadFailure(err error) *domain.FailureInfo {
	failure := &domain.FailureInfo{
		Kind:    domain.FailureDownload,
		Message: err.Error(),
	}
	var dErr *domain.DownloadError
	if errors.As(err, &dErr) {
		failure.HTTPStatus = dErr.HTTPStatus
	}
	return failure
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
