package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckhand/deckhand/internal/output"
	"github.com/deckhand/deckhand/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persisted preferences",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show persisted preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := settings.Load()
		if err != nil {
			return err
		}

		orDefault := func(value string) string {
			if value == "" {
				return "(unset)"
			}
			return value
		}

		fmt.Printf("default_workspace: %s\n", orDefault(prefs.DefaultWorkspace))
		fmt.Printf("default_project:   %s\n", orDefault(prefs.DefaultProject))
		fmt.Printf("output_format:     %s\n", orDefault(prefs.OutputFormat))
		if path := settings.Path(); path != "" {
			fmt.Printf("\nstored at: %s\n", path)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set persisted preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		workspace, _ := cmd.Flags().GetString("workspace")
		project, _ := cmd.Flags().GetString("project")
		format, _ := cmd.Flags().GetString("format")

		if workspace == "" && project == "" && format == "" {
			return fmt.Errorf("nothing to set (use --workspace, --project, or --format)")
		}

		prefs, err := settings.Load()
		if err != nil {
			return err
		}

		if workspace != "" {
			prefs.DefaultWorkspace = strings.TrimSpace(workspace)
		}
		if project != "" {
			prefs.DefaultProject = strings.TrimSpace(project)
		}
		if format != "" {
			parsed, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			prefs.OutputFormat = string(parsed)
		}

		if err := settings.Save(prefs); err != nil {
			return err
		}

		fmt.Println("Preferences saved.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().String("workspace", "", "Default workspace ID")
	configSetCmd.Flags().String("project", "", "Default project ID")
	configSetCmd.Flags().String("format", "", "Default output format: table, json, markdown")
}
