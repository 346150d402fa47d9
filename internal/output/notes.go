package output

import (
	"strings"
	"time"

	"github.com/deckhand/deckhand/internal/trackerapi"
)

func statusLabel(task *trackerapi.Task) string {
	if task == nil {
		return "unknown"
	}
	if task.Completed {
		return "done"
	}
	if status := strings.TrimSpace(task.Status); status != "" {
		return status
	}
	return "open"
}

func dueLabel(task *trackerapi.Task) string {
	if task == nil || task.DueDate == nil {
		return ""
	}
	return task.DueDate.Format("2006-01-02")
}

func taskNotes(task *trackerapi.Task) string {
	if task == nil {
		return ""
	}

	parts := []string{}
	if priority := strings.TrimSpace(task.Priority); priority != "" {
		parts = append(parts, "priority: "+priority)
	}
	if due := dueLabel(task); due != "" {
		parts = append(parts, "due: "+due)
	}
	if len(task.LabelIDs) > 0 {
		parts = append(parts, "labels: "+strings.Join(task.LabelIDs, ", "))
	}

	return strings.Join(parts, "; ")
}

func labelNames(labels []trackerapi.Label) string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		if name := strings.TrimSpace(label.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func assigneeNames(members []trackerapi.Member) string {
	names := make([]string, 0, len(members))
	for _, member := range members {
		name := strings.TrimSpace(member.Name)
		if name == "" {
			name = member.ID
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func timestampLabel(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format("2006-01-02 15:04")
}
