package cmd

import (
	"context"
	"fmt"

	"github.com/deckhand/deckhand/internal/config"
	"github.com/deckhand/deckhand/internal/observability"
	"github.com/deckhand/deckhand/internal/ratelimit"
	"github.com/deckhand/deckhand/internal/trackerapi"
)

// newClient builds a Taskdeck client with the full admission and retry
// pipeline, sized from config. CLI invocations share the same dual-window
// discipline as the server so a scripted loop cannot blow the quota.
func newClient(ctx context.Context) (*trackerapi.Client, *config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	limiter := ratelimit.NewLimiter(
		ratelimit.Quota{Capacity: cfg.RateLimit.AppCapacity, Window: cfg.RateLimit.AppWindow},
		ratelimit.Quota{Capacity: cfg.RateLimit.UserCapacity, Window: cfg.RateLimit.UserWindow},
	)
	exec := ratelimit.NewExecutor(limiter)
	exec.MaxAttempts = cfg.RateLimit.MaxAttempts
	exec.BaseDelay = cfg.RateLimit.BaseDelay
	exec.MaxDelay = cfg.RateLimit.MaxDelay
	exec.Logger = observability.CLILogger

	client := trackerapi.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.AppToken, cfg.Upstream.UserToken, exec)
	client.Timeout = cfg.Upstream.Timeout
	return client, cfg, nil
}
