package trackerapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind partitions upstream failures by how callers should react.
type Kind string

const (
	// KindInvalidRequest covers 4xx responses other than throttling; the
	// request itself is at fault and retrying it cannot help.
	KindInvalidRequest Kind = "invalid_request"

	// KindUpstream covers 5xx responses. This layer does not retry them;
	// the call may have had effects server-side.
	KindUpstream Kind = "upstream"

	// KindThrottled marks the 429 detail carried inside a ThrottledError.
	KindThrottled Kind = "throttled"
)

// APIError is returned when Taskdeck responds with a non-retryable error
// status. Body holds the raw response for diagnostics; it must never
// include credentials.
type APIError struct {
	Kind       Kind
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e == nil {
		return "taskdeck error"
	}
	if e.Code != "" {
		return fmt.Sprintf("taskdeck request failed: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("taskdeck request failed: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("taskdeck request failed: status %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the upstream.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
