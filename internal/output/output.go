package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deckhand/deckhand/internal/trackerapi"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// TaskDetail is a fetched task joined with the related records the
// rendering surface shows alongside it.
type TaskDetail struct {
	Task      trackerapi.Task      `json:"task"`
	Project   *trackerapi.Project  `json:"project,omitempty"`
	Comments  []trackerapi.Comment `json:"comments,omitempty"`
	Labels    []trackerapi.Label   `json:"labels,omitempty"`
	Assignees []trackerapi.Member  `json:"assignees,omitempty"`
}

// Formatter renders Taskdeck records.
type Formatter interface {
	FormatTask(detail *TaskDetail) (string, error)
	FormatTasks(tasks []trackerapi.Task) (string, error)
	FormatProjects(projects []trackerapi.Project) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// FormatTaskDetails renders multiple task details using the requested format.
func FormatTaskDetails(format Format, details []*TaskDetail) (string, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(details, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	formatter := NewFormatter(format)
	rendered := make([]string, 0, len(details))
	for _, detail := range details {
		if detail == nil {
			continue
		}
		value, err := formatter.FormatTask(detail)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		rendered = append(rendered, value)
	}

	return strings.Join(rendered, "\n\n"), nil
}
