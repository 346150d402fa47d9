package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckhand/deckhand/internal/observability"
	"github.com/deckhand/deckhand/internal/output"
	"github.com/deckhand/deckhand/internal/settings"
	"github.com/deckhand/deckhand/internal/store"
	"github.com/deckhand/deckhand/internal/trackerapi"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Work with Taskdeck projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in a workspace",
	RunE:  runProjectList,
}

var projectGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectGet,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectGetCmd)

	projectListCmd.Flags().String("workspace", "", "Workspace ID (defaults to configured default workspace)")
	projectListCmd.Flags().Int("limit", 50, "Maximum projects to return")
	projectListCmd.Flags().String("output-format", string(output.FormatTable), "Output format: table, json, markdown")
	projectListCmd.Flags().String("out", "", "Write output to a file (default stdout)")
	projectListCmd.Flags().String("out-dir", "", "Write output to a directory")

	projectGetCmd.Flags().String("output-format", string(output.FormatTable), "Output format: table, json, markdown")
	projectGetCmd.Flags().String("out", "", "Write output to a file (default stdout)")
	projectGetCmd.Flags().String("out-dir", "", "Write output to a directory")
	projectGetCmd.Flags().Bool("no-cache", false, "Skip cache lookup")
}

func runProjectList(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	workspaceID, _ := cmd.Flags().GetString("workspace")
	limit, _ := cmd.Flags().GetInt("limit")

	if workspaceID == "" {
		if prefs, err := settings.Load(); err == nil {
			workspaceID = prefs.DefaultWorkspace
		}
	}
	if workspaceID == "" {
		return fmt.Errorf("workspace is required (pass --workspace or set a default with `deckhand config set --workspace`)")
	}

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	page, err := client.Projects(cmd.Context(), workspaceID, trackerapi.ListOptions{Limit: limit})
	if err != nil {
		return err
	}

	rendered, err := output.NewFormatter(format).FormatProjects(page.Items)
	if err != nil {
		return err
	}

	return writeCommandOutput(cmd, format, "projects", rendered)
}

func runProjectGet(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if id == "" {
		return fmt.Errorf("project id is required")
	}

	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")

	client, cfg, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	var db *store.Store
	if opened, err := openStore(cmd.Context()); err == nil {
		db = opened
		defer db.Close() // nolint:errcheck // best-effort cleanup
	} else if verbose {
		observability.CLILogger.Debug("Record cache unavailable", zap.Error(err))
	}

	project, err := fetchProject(cmd.Context(), client, db, id, noCache, cfg.Cache.ProjectTTL)
	if err != nil {
		return err
	}

	rendered, err := output.NewFormatter(format).FormatProjects([]trackerapi.Project{*project})
	if err != nil {
		return err
	}

	return writeCommandOutput(cmd, format, sanitizeFilename("project-"+id), rendered)
}
