// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Workflow service owns the submission state machine; the encoder,
// filename and progress helpers it calls hold no state of their own.
package services
