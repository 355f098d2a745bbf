package services

import (
	"context"
	"time"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
)

// Ensure SimulatedProgress implements the interface.
var _ driven.ProgressReporter = (*SimulatedProgress)(nil)

// DefaultProgressSteps is the fixed sequence shown before the remote call.
// Percentages strictly increase.
var DefaultProgressSteps = []domain.Progress{
	{Message: "Uploading file to processing service...", Percent: 16},
	{Message: "AI analyzing your travel products...", Percent: 32},
	{Message: "Generating engaging product summaries...", Percent: 48},
	{Message: "Tagging products with holiday interests...", Percent: 64},
	{Message: "Preparing your enhanced file...", Percent: 80},
	{Message: "Processing with AI...", Percent: 90},
}

// ProgressComplete is published once the remote call returns, whatever
// its outcome.
var ProgressComplete = domain.Progress{Message: "Processing complete", Percent: 100}

// SimulatedProgress emits a fixed sequence of status updates.
// It knows nothing about the remote job.
type SimulatedProgress struct {
	steps    []domain.Progress
	interval time.Duration
}

// NewSimulatedProgress creates a reporter holding each step for interval.
// A zero interval emits all steps immediately.
func NewSimulatedProgress(interval time.Duration) *SimulatedProgress {
	if interval < 0 {
		interval = 0
	}
	return &SimulatedProgress{
		steps:    DefaultProgressSteps,
		interval: interval,
	}
}

// Steps returns a copy of the step sequence.
func (p *SimulatedProgress) Steps() []domain.Progress {
	steps := make([]domain.Progress, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// Emit sends each step to sink in order and holds it for the interval.
func (p *SimulatedProgress) Emit(ctx context.Context, sink driven.ProgressSink) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sink != nil {
			sink(step)
		}
		if p.interval == 0 {
			continue
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
