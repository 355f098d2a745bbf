package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractSubmissionID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid submission URI", uri: "tagger://submissions/sub-123", expected: "sub-123"},
		{name: "invalid prefix", uri: "file://submissions/sub-123", expected: ""},
		{name: "nested path", uri: "tagger://submissions/sub-123/extra", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSubmissionID(tt.uri))
		})
	}
}

func TestServer_handleSubmissionResource(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSubmissionStore()
	require.NoError(t, store.Save(ctx, domain.Submission{
		ID:       "sub-1",
		FileName: "products.xlsx",
		Phase:    domain.PhaseReady,
		Summary:  &domain.ResultsSummary{TotalProducts: 3},
	}))

	server, err := NewServer(&Ports{Workflow: &mockWorkflow{}, History: services.NewHistoryService(store)})
	require.NoError(t, err)

	t.Run("returns submission JSON", func(t *testing.T) {
		result, err := server.handleSubmissionResource(ctx, readRequest("tagger://submissions/sub-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got SubmissionOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, "sub-1", got.ID)
		assert.Equal(t, "ready", got.Phase)
		assert.Equal(t, 3, got.Summary.TotalProducts)
	})

	t.Run("unknown submission", func(t *testing.T) {
		_, err := server.handleSubmissionResource(ctx, readRequest("tagger://submissions/missing"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := server.handleSubmissionResource(ctx, readRequest("tagger://other/sub-1"))
		assert.Error(t, err)
	})
}

func TestServer_handleSubmissionResource_NoHistory(t *testing.T) {
	server, err := NewServer(&Ports{Workflow: &mockWorkflow{}})
	require.NoError(t, err)

	_, err = server.handleSubmissionResource(context.Background(), readRequest("tagger://submissions/sub-1"))

	assert.Error(t, err)
}

func TestServer_handleSettingsResource(t *testing.T) {
	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set(services.KeyBucket, "team-bucket"))
	require.NoError(t, settings.Set(services.KeyAPIToken, "secret-token"))

	server, err := NewServer(&Ports{Workflow: &mockWorkflow{}, Settings: settings})
	require.NoError(t, err)

	result, err := server.handleSettingsResource(context.Background(), readRequest("tagger://settings"))

	require.NoError(t, err)
	text := result.Contents[0].Text
	assert.Contains(t, text, `"bucket": "team-bucket"`)
	assert.Contains(t, text, `"api_token_set": true`)
	assert.Contains(t, text, `"timeout_seconds": 300`)
	assert.NotContains(t, text, "secret-token")
}
