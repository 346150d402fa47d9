package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// Webhooks lists the webhooks registered for a workspace.
func (c *Client) Webhooks(ctx context.Context, workspaceID string, opts ListOptions) (*Page[Webhook], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Webhook], error) {
		values := listQuery(opts)
		values.Set("workspace_id", workspaceID)
		var out Page[Webhook]
		if err := c.do(ctx, http.MethodGet, "/webhooks", values, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// CreateWebhook registers a delivery target for workspace events.
func (c *Client) CreateWebhook(ctx context.Context, req CreateWebhookRequest) (*Webhook, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Webhook, error) {
		var out Webhook
		if err := c.do(ctx, http.MethodPost, "/webhooks", nil, req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// DeleteWebhook removes a webhook registration.
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/webhooks/"+url.PathEscape(id), nil, nil, nil)
	})
}
