package cli

import (
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewToolsCmd creates the tools command
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the operation catalogue",
		Long: `Print every operation the agent can invoke, with its required
and optional parameters.

Examples:
  pouch-agent tools`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools()
		},
	}
	return cmd
}

func runTools() error {
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

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Operation", "Parameters", "Description"})

	for _, def := range rt.registry.Export() {
		required := map[string]bool{}
		for _, name := range def.Schema.Required {
			required[name] = true
		}

		params := make([]string, 0, len(def.Schema.Properties))
		for name := range def.Schema.Properties {
			if required[name] {
				params = append(params, name+"*")
			} else {
				params = append(params, name)
			}
		}
		sort.Strings(params)

		t.AppendRow(table.Row{def.Name, strings.Join(params, ", "), def.Description})
	}

	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}
