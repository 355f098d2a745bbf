package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

// uriScheme is the custom URI scheme for tagger resources.
const uriScheme = "tagger://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Effective enrichment settings (API token masked)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "submissions/{submissionId}",
		Name:        "submission",
		Description: "A past spreadsheet submission and its outcome",
		MIMEType:    "application/json",
	}, s.handleSubmissionResource)
}

// handleSettingsResource returns the settings the next submission will use.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	type settingsInfo struct {
		Endpoint       string `json:"endpoint"`
		Bucket         string `json:"bucket"`
		TimeoutSeconds int    `json:"timeout_seconds"`
		TokenSet       bool   `json:"api_token_set"`
		OutputSuffix   string `json:"output_suffix"`
		OutputDir      string `json:"output_dir,omitempty"`
	}

	return jsonResult(req.Params.URI, settingsInfo{
		Endpoint:       settings.Enrichment.Endpoint,
		Bucket:         settings.Enrichment.Bucket,
		TimeoutSeconds: int(settings.Enrichment.Timeout.Seconds()),
		TokenSet:       settings.Enrichment.APIToken != "",
		OutputSuffix:   settings.Output.Suffix,
		OutputDir:      settings.Output.Dir,
	})
}

// handleSubmissionResource returns one submission by ID.
func (s *Server) handleSubmissionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractSubmissionID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sub, err := s.ports.History.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting submission: %w", err)
	}

	return jsonResult(req.Params.URI, toSubmissionOutput(*sub))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSubmissionID extracts the ID from a URI like tagger://submissions/{submissionId}.
func extractSubmissionID(uri string) string {
	const prefix = uriScheme + "submissions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
