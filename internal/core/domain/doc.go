// Package domain defines the core business entities for Tagger.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UploadedFile: The spreadsheet selected by the user
//   - EncodedPayload: Transport-safe text form of the file bytes
//   - ProcessingResult: Outcome of the remote enrichment call
//   - WorkflowState: Where a submission currently is
//   - Submission: Persisted record of a finished submission
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
