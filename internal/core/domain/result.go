package domain

import "fmt"

// ResultsSummary holds the counts reported by the enrichment service.
// The counts are independent; partial success is a valid outcome.
type ResultsSummary struct {
	TotalProducts       int `json:"total_products"`
	SuccessfulSummaries int `json:"successful_summaries"`
	SuccessfulTags      int `json:"successful_tags"`
}

// FailureKind classifies why a submission failed.
type FailureKind string

// Failure kinds.
const (
	// FailureEncoding means the file could not be encoded for transport.
	FailureEncoding FailureKind = "encoding_error"

	// FailureNetwork means the processing service was unreachable.
	FailureNetwork FailureKind = "network_error"

	// FailureTimeout means processing exceeded the time budget.
	FailureTimeout FailureKind = "timeout"

	// FailureRemote means the processing service returned an error or a malformed body.
	FailureRemote FailureKind = "remote_error"

	// FailureDownload means the enhanced file could not be fetched.
	FailureDownload FailureKind = "download_error"
)

// String returns the string representation.
func (k FailureKind) String() string {
	return string(k)
}

// Sentinel returns the domain error matching this kind.
func (k FailureKind) Sentinel() error {
	switch k {
	case FailureEncoding:
		return ErrEmptyContent
	case FailureNetwork:
		return ErrNetwork
	case FailureTimeout:
		return ErrTimeout
	case FailureRemote:
		return ErrRemote
	case FailureDownload:
		return ErrDownload
	default:
		return nil
	}
}

// FailureInfo carries the diagnostic detail of a failed submission.
// Message always holds the original text from the failing layer.
type FailureInfo struct {
	Kind FailureKind `json:"kind"`

	// Message is the human-readable diagnostic. For remote errors it is the
	// response body, verbatim.
	Message string `json:"message"`

	// HTTPStatus is the status code, or 0 when no response was received.
	HTTPStatus int `json:"http_status,omitempty"`

	// Body is the raw response body when one was received.
	Body string `json:"body,omitempty"`
}

// Error implements the error interface.
func (f *FailureInfo) Error() string {
	if f.HTTPStatus != 0 {
		return fmt.Sprintf("%s (status %d): %s", f.Kind, f.HTTPStatus, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap allows errors.Is against the per-kind sentinel.
func (f *FailureInfo) Unwrap() error {
	return f.Kind.Sentinel()
}

// ProcessingSuccess is the successful outcome of the remote call.
type ProcessingSuccess struct {
	Summary ResultsSummary

	// DownloadURL is empty when the service returned no artifact location.
	DownloadURL string
}

// ProcessingResult is exactly one of Success or Failure.
type ProcessingResult struct {
	Success *ProcessingSuccess
	Failure *FailureInfo
}

// Succeeded returns a successful result.
func Succeeded(summary ResultsSummary, downloadURL string) ProcessingResult {
	return ProcessingResult{Success: &ProcessingSuccess{Summary: summary, DownloadURL: downloadURL}}
}

// Failed returns a failed result.
func Failed(kind FailureKind, message string, httpStatus int, body string) ProcessingResult {
	return ProcessingResult{Failure: &FailureInfo{
		Kind:       kind,
		Message:    message,
		HTTPStatus: httpStatus,
		Body:       body,
	}}
}

// IsSuccess reports whether the remote call succeeded.
func (r ProcessingResult) IsSuccess() bool {
	return r.Success != nil
}

// EncodingReason explains an encoding failure.
type EncodingReason string

// EncodingEmptyContent is returned for zero-length input.
const EncodingEmptyContent EncodingReason = "empty content"

// EncodingError is returned by the transport encoder.
type EncodingError struct {
	Reason EncodingReason
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: %s", e.Reason)
}

// Unwrap allows errors.Is(err, ErrEmptyContent).
func (e *EncodingError) Unwrap() error {
	if e.Reason == EncodingEmptyContent {
		return ErrEmptyContent
	}
	return nil
}

// DownloadError is returned by the result downloader.
type DownloadError struct {
	// HTTPStatus is the status code, or 0 for transport failures.
	HTTPStatus int

	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("download failed with status %d", e.HTTPStatus)
	}
	return fmt.Sprintf("download failed: %s", e.Message)
}

// Unwrap allows errors.Is(err, ErrDownload).
func (e *DownloadError) Unwrap() error {
	return ErrDownload
}
