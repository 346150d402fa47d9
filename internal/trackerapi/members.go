package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

// Members lists members of a workspace.
func (c *Client) Members(ctx context.Context, workspaceID string, opts ListOptions) (*Page[Member], error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Page[Member], error) {
		var out Page[Member]
		if err := c.do(ctx, http.MethodGet, "/workspaces/"+url.PathEscape(workspaceID)+"/members", listQuery(opts), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Member fetches a single member.
func (c *Client) Member(ctx context.Context, id string) (*Member, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Member, error) {
		var out Member
		if err := c.do(ctx, http.MethodGet, "/members/"+url.PathEscape(id), nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Me returns the member owning the user token.
func (c *Client) Me(ctx context.Context) (*Member, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Member, error) {
		var out Member
		if err := c.do(ctx, http.MethodGet, "/members/me", nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// InviteMember invites an email address into a workspace.
func (c *Client) InviteMember(ctx context.Context, workspaceID, email, role string) (*Member, error) {
	return ratelimit.Call(ctx, c.Exec, func(ctx context.Context) (*Member, error) {
		payload := map[string]string{"email": email, "role": role}
		var out Member
		if err := c.do(ctx, http.MethodPost, "/workspaces/"+url.PathEscape(workspaceID)+"/members", nil, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// RemoveMember removes a member from a workspace.
func (c *Client) RemoveMember(ctx context.Context, workspaceID, memberID string) error {
	return c.Exec.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/workspaces/"+url.PathEscape(workspaceID)+"/members/"+url.PathEscape(memberID), nil, nil, nil)
	})
}
