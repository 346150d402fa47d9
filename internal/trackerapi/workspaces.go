package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// Workspaces lists workspaces visible to the user token.
func (c *Client) Workspaces(ctx context.Context, opts ListOptions) (*Page[Workspace], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Workspace], error) {
		var out Page[Workspace]
		if err := c.do(ctx, http.MethodGet, "/workspaces", listQuery(opts), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Workspace fetches a single workspace.
func (c *Client) Workspace(ctx context.Context, id string) (*Workspace, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Workspace, error) {
		var out Workspace
		if err := c.do(ctx, http.MethodGet, "/workspaces/"+url.PathEscape(id), nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
