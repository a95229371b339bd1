package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notedmd/notedmd-cli/internal/adapters/driven/ai"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/notion"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/storage/sqlite"
	"github.com/notedmd/notedmd-cli/internal/adapters/driving/mcp"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
	"github.com/notedmd/notedmd-cli/internal/core/services"
	"github.com/notedmd/notedmd-cli/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for Claude Desktop)
  notedmd mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  notedmd mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "notedmd": {
        "command": "/path/to/notedmd",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	transcriber, err := ai.CreateTranscriber(cfg, ai.Overrides{
		APIKey: resolveAPIKey(cfg.ActiveProvider),
	})
	if err != nil {
		return err
	}
	defer transcriber.Close() //nolint:errcheck

	// The Notion sink is optional; a tool call that asks to publish
	// without it fails up front.
	var publisher driven.Publisher
	if p, err := notion.NewPublisher(notionConfigWithEnv(cfg.Notion)); err == nil {
		publisher = p
	}

	var history driven.HistoryStore
	if store, err := sqlite.NewStore(historyDataDir); err != nil {
		logger.Warn("history store unavailable: %v", err)
	} else {
		history = store
		defer store.Close() //nolint:errcheck
	}

	converter, err := services.NewConverter(services.ConverterConfig{
		Transcriber: transcriber,
		Provider:    cfg.ActiveProvider,
		Publisher:   publisher,
		History:     history,
	})
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Converter: converter})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
