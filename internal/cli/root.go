// Package cli wires the cobra command tree: serve (HTTP gateway), mcp
// (stdio MCP server), chat (interactive terminal session), and tools
// (catalogue listing).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oreem-dev/pouch-agent/internal/config"
)

var (
	cfgFile  string
	logLevel string
)

// NewRootCmd creates the root pouch-agent command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pouch-agent",
		Short: "Conversational agent for the Pouch accounting API",
		Long: `pouch-agent bridges a conversational model to the Pouch
FrontAccounting-style REST API through a catalogue of typed operations.

Available subcommands:
  serve       Run the HTTP gateway
  mcp         Serve the operation catalogue over MCP on stdio
  chat        Chat with the agent in the terminal
  tools       List the operation catalogue

Examples:
  pouch-agent serve
  pouch-agent serve --config config.yaml
  pouch-agent mcp
  pouch-agent chat --log-level warn
  pouch-agent tools`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file (optional)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewToolsCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies the log level flag override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLogger creates a production zap logger at the configured level,
// writing to stderr so stdout stays free for command output and the MCP
// stdio transport.
func buildLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
