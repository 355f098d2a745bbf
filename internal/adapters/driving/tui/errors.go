package tui

import "errors"

// ErrMissingWorkflowService is returned when the workflow service is not provided.
var ErrMissingWorkflowService = errors.New("tui: workflow service is required")

// ErrAborted is returned when the user quits before the submission finishes.
var ErrAborted = errors.New("tui: submission abandoned")
