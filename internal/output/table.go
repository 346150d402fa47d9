package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/deckhand/deckhand/internal/trackerapi"
)

// TableFormatter renders records as ASCII tables.
type TableFormatter struct{}

// FormatTask renders a fetched task, with its related records, as a table
// plus trailing comment lines.
func (f *TableFormatter) FormatTask(detail *TaskDetail) (string, error) {
	if detail == nil {
		return "", nil
	}

	task := detail.Task

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"ID", task.ID})
	t.AppendRow(table.Row{"Title", task.Title})
	t.AppendRow(table.Row{"Status", statusLabel(&task)})
	if detail.Project != nil {
		t.AppendRow(table.Row{"Project", detail.Project.Name})
	}
	if priority := strings.TrimSpace(task.Priority); priority != "" {
		t.AppendRow(table.Row{"Priority", priority})
	}
	if due := dueLabel(&task); due != "" {
		t.AppendRow(table.Row{"Due", due})
	}
	if names := assigneeNames(detail.Assignees); names != "" {
		t.AppendRow(table.Row{"Assignees", names})
	}
	if names := labelNames(detail.Labels); names != "" {
		t.AppendRow(table.Row{"Labels", names})
	}
	if body := strings.TrimSpace(task.Description); body != "" {
		t.AppendRow(table.Row{"Description", body})
	}

	rendered := t.Render()
	if len(detail.Comments) > 0 {
		var sb strings.Builder
		sb.WriteString(rendered)
		sb.WriteString("\n\nComments:\n")
		for _, comment := range detail.Comments {
			author := strings.TrimSpace(comment.AuthorID)
			if author == "" {
				author = "unknown"
			}
			sb.WriteString("  " + author)
			if ts := timestampLabel(comment.CreatedAt); ts != "" {
				sb.WriteString(" (" + ts + ")")
			}
			sb.WriteString(": " + strings.TrimSpace(comment.Body) + "\n")
		}
		rendered = sb.String()
	}
	return rendered, nil
}

// FormatTasks renders a task listing as a table.
func (f *TableFormatter) FormatTasks(tasks []trackerapi.Task) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Title", "Status", "Notes"})
	for i := range tasks {
		task := &tasks[i]
		t.AppendRow(table.Row{task.ID, task.Title, statusLabel(task), taskNotes(task)})
	}
	return t.Render(), nil
}

// FormatProjects renders a project listing as a table.
func (f *TableFormatter) FormatProjects(projects []trackerapi.Project) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Name", "Archived", "Description"})
	for _, project := range projects {
		archived := "no"
		if project.Archived {
			archived = "yes"
		}
		t.AppendRow(table.Row{project.ID, project.Name, archived, project.Description})
	}
	return t.Render(), nil
}
