package trackerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deckhand/deckhand/internal/ratelimit"
)

const defaultBaseURL = "https://api.taskdeck.com/v1"

// Client speaks the Taskdeck REST API. Every endpoint method performs
// exactly one upstream call, classified for the executor; admission and
// retry live in the executor, not here.
type Client struct {
	BaseURL    string
	AppToken   string
	UserToken  string
	HTTPClient *http.Client
	Timeout    time.Duration
	Exec       *ratelimit.Executor
}

// NewClient returns a client with defaults applied.
func NewClient(baseURL, appToken, userToken string, exec *ratelimit.Executor) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		BaseURL:   base,
		AppToken:  strings.TrimSpace(appToken),
		UserToken: strings.TrimSpace(userToken),
		Exec:      exec,
	}
}

// do performs one HTTP round trip and classifies the response. Transport
// faults become TransientError, 429s become ThrottledError, other non-2xx
// statuses become APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	if c == nil {
		return fmt.Errorf("taskdeck client not configured")
	}
	if strings.TrimSpace(c.UserToken) == "" {
		return fmt.Errorf("user token is required")
	}

	parent := ctx
	ctx, cancel := withTimeout(ctx, c.Timeout)
	if cancel != nil {
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	reqURL := strings.TrimRight(c.BaseURL, "/") + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.UserToken)
	req.Header.Set("Accept", "application/json")
	if c.AppToken != "" {
		req.Header.Set("X-App-Token", c.AppToken)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		// Only the caller's own context ends the call; a per-attempt
		// deadline expiring while the caller is still live is a slow
		// upstream, which the executor may retry.
		if parent.Err() != nil {
			return parent.Err()
		}
		return &ratelimit.TransientError{Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if parent.Err() != nil {
			return parent.Err()
		}
		return &ratelimit.TransientError{Err: fmt.Errorf("read response: %w", err)}
	}

	if err := classify(resp.StatusCode, resp.Header, respBody); err != nil {
		return err
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// classify maps a Taskdeck response status onto the error taxonomy.
func classify(status int, header http.Header, body []byte) error {
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	case status == http.StatusTooManyRequests:
		return throttleFromResponse(header, body)
	case status >= http.StatusInternalServerError:
		return apiError(KindUpstream, status, body)
	default:
		return apiError(KindInvalidRequest, status, body)
	}
}

func apiError(kind Kind, status int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:       kind,
		StatusCode: status,
		Body:       body,
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// throttleFromResponse builds a ThrottledError honoring Retry-After when
// the upstream provides one.
func throttleFromResponse(header http.Header, body []byte) *ratelimit.ThrottledError {
	throttled := &ratelimit.ThrottledError{
		Err: apiError(KindThrottled, http.StatusTooManyRequests, body),
	}
	if raw := strings.TrimSpace(header.Get("Retry-After")); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			throttled.RetryAfter = time.Duration(seconds) * time.Second
		}
	}
	return throttled
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, nil
	}
	return context.WithTimeout(ctx, timeout)
}

func listQuery(opts ListOptions) url.Values {
	query := url.Values{}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	return query
}
