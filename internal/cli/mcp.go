package cli

import (
	"github.com/spf13/cobra"

	"github.com/oreem-dev/pouch-agent/internal/mcpserver"
)

// NewMCPCmd creates the mcp command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the operation catalogue over MCP on stdio",
		Long: `Serve the accounting operations as Model Context Protocol tools
on stdin/stdout, for MCP-capable clients that bring their own model.

No Gemini credentials are needed in this mode. Logs go to stderr so
stdout stays clean for the protocol.

Examples:
  pouch-agent mcp
  pouch-agent mcp --config config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP()
		},
	}
	return cmd
}

func runMCP() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	rt := buildRuntime(cfg, log)

	srv, err := mcpserver.New(rt.registry, rt.dispatcher, rt.toolCtx, log)
	if err != nil {
		return err
	}
	return srv.ServeStdio()
}
