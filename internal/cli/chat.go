package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent in the terminal",
		Long: `Start an interactive terminal session with the agent. Each line
you type is one conversation turn. Type 'exit' or press Ctrl-D to quit.

Examples:
  pouch-agent chat
  pouch-agent chat --log-level error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}
	return cmd
}

func runChat(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateGemini(); err != nil {
		return err
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	rt := buildRuntime(cfg, log)
	loop, err := rt.buildLoop(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("building agent loop: %w", err)
	}

	prompt := color.New(color.FgCyan, color.Bold)
	agentLabel := color.New(color.FgGreen, color.Bold)

	fmt.Printf("Connected to %s (model %s). Type 'exit' to quit.\n\n",
		cfg.FrontAccounting.BaseURL, cfg.Gemini.Model)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		prompt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " thinking..."
		spin.Start()

		rt.metrics.ObserveMessage()
		reply, err := loop.HandleMessage(cmd.Context(), line)
		spin.Stop()

		if err != nil {
			color.Red("error: %v", err)
			continue
		}

		agentLabel.Print("agent> ")
		fmt.Println(reply)
	}
}
