package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
)

func TestNewServer(t *testing.T) {
	t.Run("nil workflow service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingWorkflowService)
	})

	t.Run("workflow only is valid", func(t *testing.T) {
		server, err := NewServer(&Ports{Workflow: &mockWorkflow{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestServer_ListsTools(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  []string
	}{
		{
			name:  "workflow only",
			ports: &Ports{Workflow: &mockWorkflow{}},
			want:  []string{"enrich_spreadsheet"},
		},
		{
			name:  "with history",
			ports: &Ports{Workflow: &mockWorkflow{}, History: services.NewHistoryService(memory.NewSubmissionStore())},
			want:  []string{"enrich_spreadsheet", "list_submissions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.ports)
			require.NoError(t, err)

			ctx := context.Background()
			clientTransport, serverTransport := mcp.NewInMemoryTransports()
			ss, err := server.server.Connect(ctx, serverTransport, nil)
			require.NoError(t, err)
			defer ss.Close()

			client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
			cs, err := client.Connect(ctx, clientTransport, nil)
			require.NoError(t, err)
			defer cs.Close()

			res, err := cs.ListTools(ctx, nil)
			require.NoError(t, err)

			var names []string
			for _, tool := range res.Tools {
				names = append(names, tool.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestServer_RunHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Workflow: &mockWorkflow{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.RunHTTP(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}

func TestServer_RunHTTPInvalidAddr(t *testing.T) {
	server, err := NewServer(&Ports{Workflow: &mockWorkflow{}})
	require.NoError(t, err)

	err = server.RunHTTP(context.Background(), "not-an-address")
	assert.Error(t, err)
}
