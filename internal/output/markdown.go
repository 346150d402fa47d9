package output

import (
	"fmt"
	"strings"

	"github.com/deckhand/deckhand/internal/trackerapi"
)

// MarkdownFormatter renders records as markdown.
type MarkdownFormatter struct{}

// FormatTask renders a fetched task, with its related records, as a
// markdown document.
func (f *MarkdownFormatter) FormatTask(detail *TaskDetail) (string, error) {
	if detail == nil {
		return "", nil
	}

	task := detail.Task

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdownCell(task.Title)))
	sb.WriteString(fmt.Sprintf("**Status**: %s\n", statusLabel(&task)))
	if detail.Project != nil {
		sb.WriteString(fmt.Sprintf("**Project**: %s\n", escapeMarkdownCell(detail.Project.Name)))
	}
	if priority := strings.TrimSpace(task.Priority); priority != "" {
		sb.WriteString(fmt.Sprintf("**Priority**: %s\n", priority))
	}
	if due := dueLabel(&task); due != "" {
		sb.WriteString(fmt.Sprintf("**Due**: %s\n", due))
	}
	if names := assigneeNames(detail.Assignees); names != "" {
		sb.WriteString(fmt.Sprintf("**Assignees**: %s\n", escapeMarkdownCell(names)))
	}
	if names := labelNames(detail.Labels); names != "" {
		sb.WriteString(fmt.Sprintf("**Labels**: %s\n", escapeMarkdownCell(names)))
	}

	if body := strings.TrimSpace(task.Description); body != "" {
		sb.WriteString("\n" + body + "\n")
	}

	if len(detail.Comments) > 0 {
		sb.WriteString("\n### Comments\n\n")
		for _, comment := range detail.Comments {
			author := strings.TrimSpace(comment.AuthorID)
			if author == "" {
				author = "unknown"
			}
			sb.WriteString(fmt.Sprintf("- **%s** (%s): %s\n",
				escapeMarkdownCell(author),
				timestampLabel(comment.CreatedAt),
				escapeMarkdownCell(strings.TrimSpace(comment.Body)),
			))
		}
	}

	return sb.String(), nil
}

// FormatTasks renders a task listing as a markdown table.
func (f *MarkdownFormatter) FormatTasks(tasks []trackerapi.Task) (string, error) {
	var sb strings.Builder
	sb.WriteString("| ID | Title | Status | Notes |\n")
	sb.WriteString("|----|-------|--------|-------|\n")
	for i := range tasks {
		task := &tasks[i]
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdownCell(task.ID),
			escapeMarkdownCell(task.Title),
			escapeMarkdownCell(statusLabel(task)),
			escapeMarkdownCell(taskNotes(task)),
		))
	}
	return sb.String(), nil
}

// FormatProjects renders a project listing as a markdown table.
func (f *MarkdownFormatter) FormatProjects(projects []trackerapi.Project) (string, error) {
	var sb strings.Builder
	sb.WriteString("| ID | Name | Archived | Description |\n")
	sb.WriteString("|----|------|----------|-------------|\n")
	for _, project := range projects {
		archived := "no"
		if project.Archived {
			archived = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdownCell(project.ID),
			escapeMarkdownCell(project.Name),
			archived,
			escapeMarkdownCell(project.Description),
		))
	}
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
