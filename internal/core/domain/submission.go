package domain

import "time"

// Submission is the persisted record of one finished workflow run.
type Submission struct {
	// ID is the unique identifier for the submission.
	ID string

	// FileName is the submitted file's name.
	FileName string

	// FileSize is the submitted file's size in bytes.
	FileSize int

	// Bucket is the storage bucket the file was sent to.
	Bucket string

	// Endpoint is the processing endpoint used.
	Endpoint string

	// Phase is the terminal phase reached.
	Phase Phase

	// Summary holds the reported counts, if the remote call succeeded.
	Summary *ResultsSummary

	// Failure holds the failure detail, if any.
	Failure *FailureInfo

	// OutputPath is where the enhanced file was saved, if it was.
	OutputPath string

	// StartedAt is when the submission began.
	StartedAt time.Time

	// FinishedAt is when the submission reached a terminal phase.
	FinishedAt time.Time
}

// Duration returns how long the submission took.
func (s Submission) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
