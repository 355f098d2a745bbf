package cli

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the enrichment workflow to AI assistants",
	Long: `Commands for running tagger as a Model Context Protocol (MCP) server.

Assistants connected to the server can enrich a local spreadsheet with the
enrich_spreadsheet tool and browse past runs with list_submissions.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server.

Without --port the server speaks JSON-RPC over stdio, which is what desktop
assistants expect when they launch tagger themselves:

  {
    "mcpServers": {
      "tagger": {"command": "/path/to/tagger", "args": ["mcp", "serve"]}
    }
  }

With --port the server listens for streamable HTTP connections instead,
for example for the MCP Inspector:

  tagger mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "localhost", "HTTP listen host")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if workflowService == nil {
		return errors.New("workflow service not configured")
	}

	addr, err := listenAddr(mcpHost, mcpPort)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Workflow: workflowService,
		History:  historyService,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	if addr == "" {
		return server.Run(cmd.Context())
	}

	cmd.PrintErrf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}

// listenAddr returns "" for stdio mode.
func listenAddr(host string, port int) (string, error) {
	switch {
	case port == 0:
		return "", nil
	case port < 0 || port > 65535:
		return "", fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}
