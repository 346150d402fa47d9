package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// Projects lists projects in a workspace.
func (c *Client) Projects(ctx context.Context, workspaceID string, opts ListOptions) (*Page[Project], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Project], error) {
		query := listQuery(opts)
		if workspaceID != "" {
			query.Set("workspace_id", workspaceID)
		}
		var out Page[Project]
		if err := c.do(ctx, http.MethodGet, "/projects", query, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Project fetches a single project.
func (c *Client) Project(ctx context.Context, id string) (*Project, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Project, error) {
		var out Project
		if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Project, error) {
		var out Project
		if err := c.do(ctx, http.MethodPost, "/projects", nil, req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*Project, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Project, error) {
		var out Project
		if err := c.do(ctx, http.MethodPatch, "/projects/"+url.PathEscape(id), nil, req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// ArchiveProject archives a project.
func (c *Client) ArchiveProject(ctx context.Context, id string) (*Project, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Project, error) {
		var out Project
		if err := c.do(ctx, http.MethodPost, "/projects/"+url.PathEscape(id)+"/archive", nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// DeleteProject deletes a project and its tasks.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil, nil)
	})
}
