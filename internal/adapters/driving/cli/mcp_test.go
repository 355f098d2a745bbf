package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Structure(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Equal(t, "serve", mcpServeCmd.Use)

	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	host := mcpServeCmd.Flags().Lookup("host")
	require.NotNil(t, host)
	assert.Equal(t, "localhost", host.DefValue)
}

func TestMCPServe_NotConfigured(t *testing.T) {
	setupTestServices(t, nil)

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow service not configured")
}

func TestMCPServe_InvalidPort(t *testing.T) {
	setupTestServices(t, &mockWorkflow{})

	_, err := execute(t, "mcp", "serve", "--port", "70000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 70000")
}

func TestListenAddr(t *testing.T) {
	tests := []struct {
		host    string
		port    int
		want    string
		wantErr bool
	}{
		{"localhost", 0, "", false},
		{"localhost", 8080, "localhost:8080", false},
		{"0.0.0.0", 9000, "0.0.0.0:9000", false},
		{"::1", 8080, "[::1]:8080", false},
		{"localhost", -1, "", true},
		{"localhost", 65536, "", true},
	}

	for _, tt := range tests {
		got, err := listenAddr(tt.host, tt.port)
		if tt.wantErr {
			assert.Error(t, err, "port %d", tt.port)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
