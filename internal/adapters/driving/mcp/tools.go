package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
	"github.com/custodia-labs/tagger-cli/internal/logger"
)

// defaultHistoryLimit caps list_submissions when no limit is given.
const defaultHistoryLimit = 10

// EnrichInput is the input schema for the enrich_spreadsheet tool.
type EnrichInput struct {
	Path      string `json:"path" jsonschema:"path to the .xlsx spreadsheet of travel products"`
	Bucket    string `json:"bucket,omitempty" jsonschema:"storage bucket for the enhanced file (default from settings)"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"directory for the enhanced file (default next to the input)"`
}

// EnrichOutput is the output schema for the enrich_spreadsheet tool.
type EnrichOutput struct {
	SubmissionID        string `json:"submission_id"`
	FileName            string `json:"file_name"`
	Bucket              string `json:"bucket"`
	TotalProducts       int    `json:"total_products"`
	SuccessfulSummaries int    `json:"successful_summaries"`
	SuccessfulTags      int    `json:"successful_tags"`
	OutputPath          string `json:"output_path,omitempty"`
	MIMEType            string `json:"mime_type,omitempty"`
	SizeBytes           int    `json:"size_bytes,omitempty"`
}

// HistoryInput is the input schema for the list_submissions tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of submissions to return (default 10)"`
}

// HistoryOutput is the output schema for the list_submissions tool.
type HistoryOutput struct {
	Submissions []SubmissionOutput `json:"submissions"`
	Count       int                `json:"count"`
}

// SubmissionOutput is one past submission.
type SubmissionOutput struct {
	ID         string                 `json:"id"`
	FileName   string                 `json:"file_name"`
	Bucket     string                 `json:"bucket"`
	Phase      string                 `json:"phase"`
	Summary    *domain.ResultsSummary `json:"summary,omitempty"`
	Failure    string                 `json:"failure,omitempty"`
	OutputPath string                 `json:"output_path,omitempty"`
	StartedAt  string                 `json:"started_at"`
	DurationMS int64                  `json:"duration_ms"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "enrich_spreadsheet",
		Description: "Send a spreadsheet of travel products for AI summaries and interest tags, and save the enhanced file",
	}, s.handleEnrich)

	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_submissions",
			Description: "List recent spreadsheet submissions, newest first",
		}, s.handleHistory)
	}
}

// handleEnrich runs one submission and saves the artifact.
func (s *Server) handleEnrich(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EnrichInput,
) (*mcp.CallToolResult, EnrichOutput, error) {
	if input.Path == "" {
		return nil, EnrichOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	file, err := services.LoadFile(input.Path)
	if err != nil {
		return nil, EnrichOutput{}, err
	}
	if !services.IsSpreadsheet(file.Name) {
		logger.Warn("%s is not an %s file; sending anyway", file.Name, domain.SpreadsheetExtension)
	}

	state, err := s.ports.Workflow.Run(ctx, file, input.Bucket)
	if err != nil {
		return nil, EnrichOutput{}, err
	}

	output := EnrichOutput{
		SubmissionID: state.SubmissionID,
		FileName:     file.Name,
		Bucket:       state.Bucket,
	}
	if state.Summary != nil {
		output.TotalProducts = state.Summary.TotalProducts
		output.SuccessfulSummaries = state.Summary.SuccessfulSummaries
		output.SuccessfulTags = state.Summary.SuccessfulTags
	}

	if state.Phase == domain.PhaseFailed {
		// Tool errors reach the client as text only, so a summary kept
		// after a failed download goes into the message.
		if state.Summary != nil {
			return nil, output, fmt.Errorf("processing %s failed after %d products were processed (%d summaries, %d tagged): %w",
				file.Name, output.TotalProducts, output.SuccessfulSummaries, output.SuccessfulTags, state.Failure)
		}
		return nil, output, fmt.Errorf("processing %s failed: %w", file.Name, state.Failure)
	}

	if !state.HasArtifact() {
		return nil, output, nil
	}

	path, err := services.SaveArtifact(state.Artifact, input.Path, s.outputDir(input.OutputDir))
	if err != nil {
		return nil, output, err
	}
	output.OutputPath = path
	output.MIMEType = domain.SpreadsheetMIMEType
	output.SizeBytes = state.Artifact.Size()

	if s.ports.History != nil {
		if err := s.ports.History.RecordOutput(ctx, state.SubmissionID, path); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Failed to record output path: %v", err)
		}
	}

	return nil, output, nil
}

// outputDir prefers the explicit directory, then output.dir from settings.
func (s *Server) outputDir(explicit string) string {
	if explicit != "" {
		return filepath.Clean(explicit)
	}
	if s.ports.Settings == nil {
		return ""
	}
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return ""
	}
	return settings.Output.Dir
}

// handleHistory lists recent submissions.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	subs, err := s.ports.History.List(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Submissions: make([]SubmissionOutput, len(subs)),
		Count:       len(subs),
	}
	for i := range subs {
		output.Submissions[i] = toSubmissionOutput(subs[i])
	}

	return nil, output, nil
}

func toSubmissionOutput(sub domain.Submission) SubmissionOutput {
	out := SubmissionOutput{
		ID:         sub.ID,
		FileName:   sub.FileName,
		Bucket:     sub.Bucket,
		Phase:      sub.Phase.String(),
		Summary:    sub.Summary,
		OutputPath: sub.OutputPath,
		StartedAt:  sub.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		DurationMS: sub.Duration().Milliseconds(),
	}
	if sub.Failure != nil {
		out.Failure = sub.Failure.Error()
	}
	return out
}
