package http

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strconv"
	"time"

	pkgerrors "github.com/curacel/langfuse-go/pkg/errors"
)

// DefaultServiceKey is used for requests that do not name a service key.
const DefaultServiceKey = "default"

// Request is one logical API call. ServiceKey selects the circuit the call
// is accounted to.
type Request struct {
	Method     string
	Path       string
	Query      url.Values
	Header     map[string]string
	Body       any
	ServiceKey string
}

func (r *Request) serviceKey() string {
	if r.ServiceKey == "" {
		return DefaultServiceKey
	}
	return r.ServiceKey
}

// Response is a received HTTP response with its body fully read.
type Response struct {
	StatusCode int
	Header     nethttp.Header
	Body       []byte
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("langfuse: decode response (status %d): %w", r.StatusCode, err)
	}
	return nil
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Doer performs exactly one HTTP exchange. It returns an error only when no
// response was received; non-2xx responses are returned as-is and turned
// into errors by the Transport.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(ctx context.Context, req *Request) (*Response, error)

// Do implements Doer.
func (f DoerFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// CheckStatus converts a non-2xx response into an *errors.APIError carrying
// the server message, request ID and Retry-After hint.
func CheckStatus(resp *Response) error {
	if resp == nil || resp.IsSuccess() {
		return nil
	}
	apiErr := &pkgerrors.APIError{StatusCode: resp.StatusCode}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, apiErr); err != nil || (apiErr.Message == "" && apiErr.ErrorMessage == "") {
			apiErr.Message = truncate(string(resp.Body), 512)
		}
		apiErr.StatusCode = resp.StatusCode
	}
	if resp.Header != nil {
		apiErr.RequestID = resp.Header.Get("X-Request-Id")
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return apiErr
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := nethttp.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
