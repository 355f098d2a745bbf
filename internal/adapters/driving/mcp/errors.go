// Package mcp provides an MCP (Model Context Protocol) server adapter for tagger.
// It lets AI assistants enrich local spreadsheets and inspect past submissions.
package mcp

import "errors"

// ErrMissingWorkflowService is returned when the workflow service is not provided.
var ErrMissingWorkflowService = errors.New("mcp: workflow service is required")
