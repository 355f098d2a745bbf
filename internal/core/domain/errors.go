package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSubmissionInProgress indicates a workflow run is already in flight.
	// Only one submission may be active at a time.
	ErrSubmissionInProgress = errors.New("submission in progress")

	// Workflow Failures.

	// ErrEmptyContent indicates the uploaded file has no readable bytes.
	ErrEmptyContent = errors.New("empty content")

	// ErrNetwork indicates the remote service could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrTimeout indicates the remote call exceeded its time budget.
	ErrTimeout = errors.New("timeout")

	// ErrRemote indicates the processing service answered with an error
	// or with a body that could not be understood.
	ErrRemote = errors.New("remote error")

	// ErrDownload indicates the enhanced file could not be retrieved.
	ErrDownload = errors.New("download error")
)
