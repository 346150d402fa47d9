package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckhand/deckhand/internal/observability"
	"github.com/deckhand/deckhand/internal/output"
	"github.com/deckhand/deckhand/internal/settings"
	"github.com/deckhand/deckhand/internal/store"
	"github.com/deckhand/deckhand/internal/trackerapi"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work with Taskdeck tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a task with its project, comments, labels, and assignees",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskGet,
}

var taskSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tasks in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskSearch,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskCreate,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskComplete,
}

var taskCommentCmd = &cobra.Command{
	Use:   "comment <id> <body>",
	Short: "Add a comment to a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskComment,
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskGetCmd)
	taskCmd.AddCommand(taskSearchCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskCommentCmd)

	taskListCmd.Flags().String("project", "", "Filter by project ID (defaults to configured default project)")
	taskListCmd.Flags().String("status", "", "Filter by status")
	taskListCmd.Flags().String("assignee", "", "Filter by assignee member ID")
	taskListCmd.Flags().String("label", "", "Filter by label ID")
	taskListCmd.Flags().Int("limit", 50, "Maximum tasks to return")
	taskListCmd.Flags().String("output-format", string(output.FormatTable), "Output format: table, json, markdown")
	taskListCmd.Flags().String("out", "", "Write output to a file (default stdout)")
	taskListCmd.Flags().String("out-dir", "", "Write output to a directory")

	taskGetCmd.Flags().String("output-format", string(output.FormatTable), "Output format: table, json, markdown")
	taskGetCmd.Flags().String("out", "", "Write output to a file (default stdout)")
	taskGetCmd.Flags().String("out-dir", "", "Write output to a directory")
	taskGetCmd.Flags().Bool("no-cache", false, "Skip cache lookup")
	taskGetCmd.Flags().Bool("comments", true, "Include comments")

	taskSearchCmd.Flags().String("workspace", "", "Workspace ID (defaults to configured default workspace)")
	taskSearchCmd.Flags().Int("limit", 50, "Maximum tasks to return")
	taskSearchCmd.Flags().String("output-format", string(output.FormatTable), "Output format: table, json, markdown")
	taskSearchCmd.Flags().String("out", "", "Write output to a file (default stdout)")
	taskSearchCmd.Flags().String("out-dir", "", "Write output to a directory")

	taskCreateCmd.Flags().String("project", "", "Project ID (defaults to configured default project)")
	taskCreateCmd.Flags().String("description", "", "Task description")
	taskCreateCmd.Flags().String("priority", "", "Task priority")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}

	projectID, _ := cmd.Flags().GetString("project")
	status, _ := cmd.Flags().GetString("status")
	assigneeID, _ := cmd.Flags().GetString("assignee")
	labelID, _ := cmd.Flags().GetString("label")
	limit, _ := cmd.Flags().GetInt("limit")

	if projectID == "" {
		if prefs, err := settings.Load(); err == nil {
			projectID = prefs.DefaultProject
		}
	}

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	page, err := client.Tasks(cmd.Context(), trackerapi.TaskFilter{
		ProjectID:   projectID,
		Status:      status,
		AssigneeID:  assigneeID,
		LabelID:     labelID,
		ListOptions: trackerapi.ListOptions{Limit: limit},
	})
	if err != nil {
		return err
	}

	rendered, err := output.NewFormatter(format).FormatTasks(page.Items)
	if err != nil {
		return err
	}

	return writeCommandOutput(cmd, format, "tasks", rendered)
}

func runTaskGet(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if id == "" {
		return fmt.Errorf("task id is required")
	}

	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	withComments, _ := cmd.Flags().GetBool("comments")

	client, cfg, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	// The record cache is best effort; a broken store never blocks a fetch.
	var db *store.Store
	if opened, err := openStore(cmd.Context()); err == nil {
		db = opened
		defer db.Close() // nolint:errcheck // best-effort cleanup
	} else if verbose {
		observability.CLILogger.Debug("Record cache unavailable", zap.Error(err))
	}

	task, err := fetchTask(cmd.Context(), client, db, id, noCache, cfg.Cache.TaskTTL)
	if err != nil {
		return err
	}

	detail := &output.TaskDetail{Task: *task}

	if task.ProjectID != "" {
		if project, err := fetchProject(cmd.Context(), client, db, task.ProjectID, noCache, cfg.Cache.ProjectTTL); err == nil {
			detail.Project = project
		} else if verbose {
			observability.CLILogger.Debug("Project lookup failed", zap.Error(err))
		}
	}

	if withComments {
		if page, err := client.TaskComments(cmd.Context(), task.ID, trackerapi.ListOptions{}); err == nil {
			detail.Comments = page.Items
		} else if verbose {
			observability.CLILogger.Debug("Comment lookup failed", zap.Error(err))
		}
	}

	for _, labelID := range task.LabelIDs {
		if label, err := client.Label(cmd.Context(), labelID); err == nil {
			detail.Labels = append(detail.Labels, *label)
		}
	}
	for _, memberID := range task.AssigneeIDs {
		if member, err := client.Member(cmd.Context(), memberID); err == nil {
			detail.Assignees = append(detail.Assignees, *member)
		}
	}

	rendered, err := output.NewFormatter(format).FormatTask(detail)
	if err != nil {
		return err
	}

	return writeCommandOutput(cmd, format, sanitizeFilename("task-"+id), rendered)
}

func runTaskSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("search query is required")
	}

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

	page, err := client.SearchTasks(cmd.Context(), workspaceID, query, trackerapi.ListOptions{Limit: limit})
	if err != nil {
		return err
	}

	rendered, err := output.NewFormatter(format).FormatTasks(page.Items)
	if err != nil {
		return err
	}

	return writeCommandOutput(cmd, format, "task-search", rendered)
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(args[0])
	if title == "" {
		return fmt.Errorf("task title is required")
	}

	projectID, _ := cmd.Flags().GetString("project")
	description, _ := cmd.Flags().GetString("description")
	priority, _ := cmd.Flags().GetString("priority")

	if projectID == "" {
		if prefs, err := settings.Load(); err == nil {
			projectID = prefs.DefaultProject
		}
	}
	if projectID == "" {
		return fmt.Errorf("project is required (pass --project or set a default with `deckhand config set --project`)")
	}

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	task, err := client.CreateTask(cmd.Context(), trackerapi.CreateTaskRequest{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Priority:    priority,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created task %s: %s\n", task.ID, task.Title)
	return nil
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if id == "" {
		return fmt.Errorf("task id is required")
	}

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	task, err := client.CompleteTask(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Completed task %s: %s\n", task.ID, task.Title)
	return nil
}

func runTaskComment(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	body := strings.TrimSpace(args[1])
	if id == "" || body == "" {
		return fmt.Errorf("task id and comment body are required")
	}

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	comment, err := client.AddComment(cmd.Context(), id, body)
	if err != nil {
		return err
	}

	fmt.Printf("Added comment %s to task %s\n", comment.ID, id)
	return nil
}

// fetchTask consults the record cache before spending quota on the
// upstream. Only upstream fetches write the cache, so a cached read never
// extends a record's TTL.
func fetchTask(ctx context.Context, client *trackerapi.Client, db *store.Store, id string, noCache bool, ttl time.Duration) (*trackerapi.Task, error) {
	if db != nil && !noCache {
		if cached, err := db.GetCachedTask(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	task, err := client.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := db.SetCachedTask(ctx, task, ttl); err != nil && verbose {
			observability.CLILogger.Debug("Cache write failed", zap.Error(err))
		}
	}
	return task, nil
}

func fetchProject(ctx context.Context, client *trackerapi.Client, db *store.Store, id string, noCache bool, ttl time.Duration) (*trackerapi.Project, error) {
	if db != nil && !noCache {
		if cached, err := db.GetCachedProject(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	project, err := client.Project(ctx, id)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := db.SetCachedProject(ctx, project, ttl); err != nil && verbose {
			observability.CLILogger.Debug("Cache write failed", zap.Error(err))
		}
	}
	return project, nil
}

// writeCommandOutput routes rendered output to stdout, --out, or --out-dir.
func writeCommandOutput(cmd *cobra.Command, format output.Format, baseName, rendered string) error {
	outPath, outDir, err := resolveOutputTargets(cmd)
	if err != nil {
		return err
	}

	if outDir != "" {
		resolved, err := ensureOutDir(outDir)
		if err != nil {
			return err
		}
		outPath = filepath.Join(resolved, fmt.Sprintf("%s.%s", baseName, outputExtension(format)))
	}

	sink, err := openSink(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = sink.close() }()

	_, err = fmt.Fprintln(sink.writer, rendered)
	return err
}
