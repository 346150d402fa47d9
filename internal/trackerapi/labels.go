package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// Labels lists labels in a workspace.
func (c *Client) Labels(ctx context.Context, workspaceID string, opts ListOptions) (*Page[Label], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Label], error) {
		var out Page[Label]
		if err := c.do(ctx, http.MethodGet, "/workspaces/"+url.PathEscape(workspaceID)+"/labels", listQuery(opts), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Label fetches a single label.
func (c *Client) Label(ctx context.Context, id string) (*Label, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Label, error) {
		var out Label
		if err := c.do(ctx, http.MethodGet, "/labels/"+url.PathEscape(id), nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// CreateLabel creates a label in a workspace.
func (c *Client) CreateLabel(ctx context.Context, workspaceID, name, color string) (*Label, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Label, error) {
		payload := map[string]string{"name": name, "color": color}
		var out Label
		if err := c.do(ctx, http.MethodPost, "/workspaces/"+url.PathEscape(workspaceID)+"/labels", nil, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// DeleteLabel deletes a label.
func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/labels/"+url.PathEscape(id), nil, nil, nil)
	})
}

// AddTaskLabel attaches a label to a task.
func (c *Client) AddTaskLabel(ctx context.Context, taskID, labelID string) (*Task, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Task, error) {
		payload := map[string]string{"label_id": labelID}
		var out Task
		if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(taskID)+"/labels", nil, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// RemoveTaskLabel detaches a label from a task.
func (c *Client) RemoveTaskLabel(ctx context.Context, taskID, labelID string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(taskID)+"/labels/"+url.PathEscape(labelID), nil, nil, nil)
	})
}
