package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagepulse/pagepulse/internal/tools"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available MCP tools",
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Print full definitions as JSON")
}

func runTools(_ *cobra.Command, _ []string) error {
	if toolsJSON {
		defs := make([]tools.Definition, 0, len(tools.Names()))
		for _, name := range tools.Names() {
			entry, _ := tools.Lookup(name)
			defs = append(defs, tools.Definition{
				Name:        string(name),
				Description: entry.Description,
				InputSchema: entry.Input.Describe(),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(defs)
	}

	for _, name := range tools.Names() {
		entry, _ := tools.Lookup(name)
		fmt.Printf("%-30s %s\n", name, entry.Description)
	}
	return nil
}
