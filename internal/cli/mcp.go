package cli

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/adapters/mcp"
	"github.com/aretw0/voyant/pkg/planner"
)

// MCPOptions contains all the configuration for the mcp command.
type MCPOptions struct {
	ServerURL string
	Transport string
	Port      int
}

// MCP exposes the planning service as an MCP server for agent hosts.
func MCP(opts MCPOptions) error {
	logger := logging.New(slog.LevelInfo)
	slog.SetDefault(logger)

	client := planner.NewClient(opts.ServerURL, planner.WithLogger(logger))
	srv := mcp.NewServer(client)

	switch opts.Transport {
	case "stdio":
		// Keep logs off Stdout so they don't corrupt JSON-RPC framing.
		log.SetOutput(os.Stderr)
		slog.Info("Starting Voyant MCP Server (Stdio)...")
		return srv.ServeStdio()

	case "sse":
		sc := NewSignalContext(context.Background())
		defer sc.Cancel()
		slog.Info("Starting Voyant MCP Server (SSE)", "port", opts.Port)
		return srv.ServeSSE(sc, opts.Port)

	default:
		return fmt.Errorf("unknown transport %q (expected stdio or sse)", opts.Transport)
	}
}
