package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/deckhand/deckhand/internal/output"
	"github.com/deckhand/deckhand/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutputFormat(cmd)
		if err != nil {
			return err
		}

		registry := tools.NewRegistry()
		// Registration only needs the client at invoke time, so a nil
		// client is fine for listing.
		tools.RegisterTaskdeckTools(registry, nil)

		registered := registry.List()

		if format == output.FormatJSON {
			data, err := json.MarshalIndent(registered, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Tool", "Description"})
		for _, tool := range registered {
			t.AppendRow(table.Row{tool.Name, tool.Description})
		}
		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().String("output-format", string(output.FormatTable), "Output format: table, json")
}
