package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// TaskAttachments lists files attached to a task.
func (c *Client) TaskAttachments(ctx context.Context, taskID string, opts ListOptions) (*Page[Attachment], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Attachment], error) {
		var out Page[Attachment]
		if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID)+"/attachments", listQuery(opts), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Attachment fetches attachment metadata.
func (c *Client) Attachment(ctx context.Context, id string) (*Attachment, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Attachment, error) {
		var out Attachment
		if err := c.do(ctx, http.MethodGet, "/attachments/"+url.PathEscape(id), nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// DeleteAttachment removes an attachment from its task.
func (c *Client) DeleteAttachment(ctx context.Context, id string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/attachments/"+url.PathEscape(id), nil, nil, nil)
	})
}
