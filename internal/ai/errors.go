package ai

import (
	"fmt"
	"net/http"
	"time"
)

// APIError carries the upstream HTTP status so callers can classify
// failures into rate-limited, transient and fatal kinds.
type APIError struct {
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed: status=%d: %s", e.StatusCode, e.Message)
}

func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) Transient() bool {
	return e.StatusCode == http.StatusRequestTimeout || e.StatusCode >= http.StatusInternalServerError
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
