package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// TaskComments lists comments on a task, oldest first.
func (c *Client) TaskComments(ctx context.Context, taskID string, opts ListOptions) (*Page[Comment], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Comment], error) {
		var out Page[Comment]
		if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID)+"/comments", listQuery(opts), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Comment fetches a single comment.
func (c *Client) Comment(ctx context.Context, id string) (*Comment, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Comment, error) {
		var out Comment
		if err := c.do(ctx, http.MethodGet, "/comments/"+url.PathEscape(id), nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// AddComment posts a comment on a task.
func (c *Client) AddComment(ctx context.Context, taskID, body string) (*Comment, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Comment, error) {
		payload := map[string]string{"body": body}
		var out Comment
		if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(taskID)+"/comments", nil, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// UpdateComment edits a comment body.
func (c *Client) UpdateComment(ctx context.Context, id, body string) (*Comment, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Comment, error) {
		payload := map[string]string{"body": body}
		var out Comment
		if err := c.do(ctx, http.MethodPatch, "/comments/"+url.PathEscape(id), nil, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(id), nil, nil, nil)
	})
}
