package domain

import "bytes"

// Phase is a step of the submission state machine.
type Phase string

// Workflow phases.
const (
	PhaseIdle           Phase = "idle"
	PhaseEncoding       Phase = "encoding"
	PhaseSubmitting     Phase = "submitting"
	PhaseAwaitingResult Phase = "awaiting_result"
	PhaseDownloading    Phase = "downloading"
	PhaseReady          Phase = "ready"
	PhaseFailed         Phase = "failed"
)

// IsTerminal reports whether no further transition happens without a new submission.
func (p Phase) IsTerminal() bool {
	return p == PhaseReady || p == PhaseFailed
}

// IsValid returns true if the phase is recognised.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseIdle, PhaseEncoding, PhaseSubmitting, PhaseAwaitingResult,
		PhaseDownloading, PhaseReady, PhaseFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Phase) String() string {
	return string(p)
}

// Description returns a human-readable description of the phase.
func (p Phase) Description() string {
	switch p {
	case PhaseIdle:
		return "Waiting for a file"
	case PhaseEncoding:
		return "Encoding file"
	case PhaseSubmitting:
		return "Sending file to AI processing service"
	case PhaseAwaitingResult:
		return "Processing with AI"
	case PhaseDownloading:
		return "Downloading enhanced file"
	case PhaseReady:
		return "Processing complete"
	case PhaseFailed:
		return "Processing failed"
	default:
		return "Unknown"
	}
}

// CanTransition reports whether the state machine allows from -> to.
// A new submission may start from Idle or any terminal phase.
func CanTransition(from, to Phase) bool {
	switch from {
	case PhaseIdle, PhaseReady, PhaseFailed:
		return to == PhaseEncoding
	case PhaseEncoding:
		return to == PhaseSubmitting || to == PhaseFailed
	case PhaseSubmitting:
		return to == PhaseSubmitting || to == PhaseAwaitingResult
	case PhaseAwaitingResult:
		return to == PhaseDownloading || to == PhaseReady || to == PhaseFailed
	case PhaseDownloading:
		return to == PhaseReady || to == PhaseFailed
	default:
		return false
	}
}

// Progress is one cosmetic status update shown while the remote call runs.
// It does not reflect the real state of the remote job.
type Progress struct {
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

// WorkflowState is a snapshot of one submission.
type WorkflowState struct {
	Phase Phase `json:"phase"`

	// SubmissionID identifies the submission; empty while Idle.
	SubmissionID string `json:"submission_id,omitempty"`

	// FileName is the name of the submitted file.
	FileName string `json:"file_name,omitempty"`

	// Bucket is the storage location the file was sent to.
	Bucket string `json:"bucket,omitempty"`

	// Progress is the latest cosmetic progress update.
	Progress Progress `json:"progress"`

	// Summary is set once the remote call succeeded, and kept if the
	// download fails afterwards.
	Summary *ResultsSummary `json:"results_summary,omitempty"`

	// Artifact is set in Ready when a download URL was returned.
	Artifact *DownloadedArtifact `json:"artifact,omitempty"`

	// Failure is set in Failed.
	Failure *FailureInfo `json:"failure,omitempty"`
}

// Clone returns a deep copy. Snapshots handed out by the workflow are
// clones, so callers may modify them freely.
func (s WorkflowState) Clone() WorkflowState {
	if s.Summary != nil {
		summary := *s.Summary
		s.Summary = &summary
	}
	if s.Artifact != nil {
		artifact := *s.Artifact
		artifact.Data = bytes.Clone(s.Artifact.Data)
		s.Artifact = &artifact
	}
	if s.Failure != nil {
		failure := *s.Failure
		s.Failure = &failure
	}
	return s
}

// HasArtifact reports whether an enhanced file is available.
func (s WorkflowState) HasArtifact() bool {
	return s.Artifact != nil
}
