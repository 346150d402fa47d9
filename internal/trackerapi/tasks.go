package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// Tasks lists tasks matching the filter.
func (c *Client) Tasks(ctx context.Context, filter TaskFilter) (*Page[Task], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Task], error) {
		query := listQuery(filter.ListOptions)
		if filter.ProjectID != "" {
			query.Set("project_id", filter.ProjectID)
		}
		if filter.Status != "" {
			query.Set("status", filter.Status)
		}
		if filter.AssigneeID != "" {
			query.Set("assignee_id", filter.AssigneeID)
		}
		if filter.LabelID != "" {
			query.Set("label_id", filter.LabelID)
		}
		var out Page[Task]
		if err := c.do(ctx, http.MethodGet, "/tasks", query, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Task fetches a single task.
func (c *Client) Task(ctx context.Context, id string) (*Task, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Task, error) {
		var out Task
		if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Task, error) {
		var out Task
		if err := c.do(ctx, http.MethodPost, "/tasks", nil, req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Task, error) {
		var out Task
		if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), nil, req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil)
	})
}

// CompleteTask marks a task completed.
func (c *Client) CompleteTask(ctx context.Context, id string) (*Task, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Task, error) {
		var out Task
		if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/complete", nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// ReopenTask reverts a completed task.
func (c *Client) ReopenTask(ctx context.Context, id string) (*Task, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Task, error) {
		var out Task
		if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/reopen", nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// MoveTask moves a task to another project.
func (c *Client) MoveTask(ctx context.Context, id, projectID string) (*Task, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Task, error) {
		payload := map[string]string{"project_id": projectID}
		var out Task
		if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/move", nil, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// AssignTask adds an assignee to a task.
func (c *Client) AssignTask(ctx context.Context, id, memberID string) (*Task, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Task, error) {
		payload := map[string]string{"member_id": memberID}
		var out Task
		if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/assignees", nil, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// UnassignTask removes an assignee from a task.
func (c *Client) UnassignTask(ctx context.Context, id, memberID string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id)+"/assignees/"+url.PathEscape(memberID), nil, nil, nil)
	})
}

// Subtasks lists the direct subtasks of a task.
func (c *Client) Subtasks(ctx context.Context, id string, opts ListOptions) (*Page[Task], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Task], error) {
		var out Page[Task]
		if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id)+"/subtasks", listQuery(opts), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
