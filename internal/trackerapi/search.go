package trackerapi

import (
	"context"
	"net/http"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// SearchTasks full-text searches tasks across the workspace.
func (c *Client) SearchTasks(ctx context.Context, workspaceID, query string, opts ListOptions) (*Page[Task], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Task], error) {
		values := listQuery(opts)
		values.Set("q", query)
		if workspaceID != "" {
			values.Set("workspace_id", workspaceID)
		}
		var out Page[Task]
		if err := c.do(ctx, http.MethodGet, "/search/tasks", values, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// SearchProjects full-text searches projects across the workspace.
func (c *Client) SearchProjects(ctx context.Context, workspaceID, query string, opts ListOptions) (*Page[Project], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Project], error) {
		values := listQuery(opts)
		values.Set("q", query)
		if workspaceID != "" {
			values.Set("workspace_id", workspaceID)
		}
		var out Page[Project]
		if err := c.do(ctx, http.MethodGet, "/search/projects", values, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
