package driven

import (
	"context"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// ProgressSink receives progress updates in order.
type ProgressSink func(domain.Progress)

// ProgressReporter emits cosmetic status updates before the remote call.
// The updates are simulated and say nothing about the real remote job.
type ProgressReporter interface {
	// Emit sends each step to sink, holding each for the configured interval.
	// It returns early with ctx.Err() if ctx is cancelled.
	Emit(ctx context.Context, sink ProgressSink) error
}
