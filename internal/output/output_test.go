package output

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deckhand/deckhand/internal/trackerapi"
)

func sampleDetail() *TaskDetail {
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return &TaskDetail{
		Task: trackerapi.Task{
			ID:          "t1",
			ProjectID:   "p1",
			Title:       "Fix login flow",
			Description: "Users get logged out after refresh.",
			Status:      "in_progress",
			Priority:    "high",
			DueDate:     &due,
		},
		Project: &trackerapi.Project{ID: "p1", Name: "Auth"},
		Comments: []trackerapi.Comment{
			{
				ID:        "c1",
				TaskID:    "t1",
				AuthorID:  "m1",
				Body:      "Repro confirmed on staging.",
				CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			},
		},
		Labels:    []trackerapi.Label{{ID: "l1", Name: "bug"}},
		Assignees: []trackerapi.Member{{ID: "m1", Name: "Sam"}},
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func TestMarkdownTaskDetail(t *testing.T) {
	rendered, err := NewFormatter(FormatMarkdown).FormatTask(sampleDetail())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rendered, "## Fix login flow"))
	require.Contains(t, rendered, "**Status**: in_progress")
	require.Contains(t, rendered, "**Project**: Auth")
	require.Contains(t, rendered, "**Due**: 2026-03-15")
	require.Contains(t, rendered, "**Labels**: bug")
	require.Contains(t, rendered, "### Comments")
	require.Contains(t, rendered, "Repro confirmed on staging.")
}

func TestTableTaskDetail(t *testing.T) {
	rendered, err := NewFormatter(FormatTable).FormatTask(sampleDetail())
	require.NoError(t, err)
	require.Contains(t, rendered, "Fix login flow")
	require.Contains(t, rendered, "in_progress")
	require.Contains(t, rendered, "Comments:")
	require.Contains(t, rendered, "Repro confirmed on staging.")
}

func TestJSONTaskDetail(t *testing.T) {
	rendered, err := NewFormatter(FormatJSON).FormatTask(sampleDetail())
	require.NoError(t, err)
	require.Contains(t, rendered, "\"id\": \"t1\"")
	require.Contains(t, rendered, "\"title\": \"Fix login flow\"")
}

func TestFormatTasksListings(t *testing.T) {
	tasks := []trackerapi.Task{
		{ID: "t1", Title: "Fix login flow", Status: "open", Priority: "high"},
		{ID: "t2", Title: "Write release notes", Completed: true},
	}

	markdown, err := NewFormatter(FormatMarkdown).FormatTasks(tasks)
	require.NoError(t, err)
	require.Contains(t, markdown, "| ID | Title | Status | Notes |")
	require.Contains(t, markdown, "priority: high")
	require.Contains(t, markdown, "done")

	tableRendered, err := NewFormatter(FormatTable).FormatTasks(tasks)
	require.NoError(t, err)
	require.Contains(t, tableRendered, "Write release notes")
}

func TestMarkdownEscaping(t *testing.T) {
	detail := sampleDetail()
	detail.Task.Title = "pipe|test"
	detail.Comments[0].Body = "foo|bar"

	rendered, err := NewFormatter(FormatMarkdown).FormatTask(detail)
	require.NoError(t, err)
	require.Contains(t, rendered, "pipe\\|test")
	require.Contains(t, rendered, "foo\\|bar")
}

func TestFormatTaskDetailsJSON(t *testing.T) {
	rendered, err := FormatTaskDetails(FormatJSON, []*TaskDetail{sampleDetail()})
	require.NoError(t, err)
	require.Contains(t, rendered, "\"id\": \"t1\"")
}

func TestFormatTaskDetailsMarkdown(t *testing.T) {
	rendered, err := FormatTaskDetails(FormatMarkdown, []*TaskDetail{sampleDetail(), nil})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rendered, "## "))
}

func TestStatusLabel(t *testing.T) {
	require.Equal(t, "done", statusLabel(&trackerapi.Task{Completed: true, Status: "in_progress"}))
	require.Equal(t, "open", statusLabel(&trackerapi.Task{}))
	require.Equal(t, "blocked", statusLabel(&trackerapi.Task{Status: "blocked"}))
}
