package calc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single round trip to an operation service.
const DefaultTimeout = 5 * time.Second

// StatusError reports a non-2xx answer from a remote service. Message holds
// the remote error text when the body was a JSON ErrorResponse.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %s %s: %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("http %s %s: %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Client performs the JSON round trips between the gateway and the
// operation services. It holds no per-request state and is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client whose requests time out after timeout. A
// non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// PostJSON posts body as JSON to url and decodes a 2xx response into out.
// out may be nil when the response body is not needed.
func (c *Client) PostJSON(ctx context.Context, url string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// GetJSON issues a GET to url and decodes a 2xx response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode}
		var remote ErrorResponse
		if data, rerr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); rerr == nil {
			if json.Unmarshal(data, &remote) == nil {
				serr.Message = remote.Error
			}
		}
		return serr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.String(), err)
	}
	return nil
}
