package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leadpilot/leadpilot/internal/metrics"
)

// ErrMalformedResponse marks a 2xx response whose body could not be decoded
// into the expected shape.
var ErrMalformedResponse = errors.New("malformed response body")

// APIError is a non-2xx response from the outreach backend. Detail carries
// the server's human-readable message when the error body provides one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// Client is an outreach backend API client. One instance covers all backend
// domains (verification, LinkedIn, WhatsApp, campaign); each domain's calls
// live in their own file.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new backend API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTimeout overrides the HTTP client timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// request performs a JSON request. Any non-2xx status is returned as an
// *APIError with the server's detail message when present.
func (c *Client) request(ctx context.Context, method, path string, body any, result any) error {
	return c.do(ctx, method, path, body, result, nil)
}

// requestSoft is request with a status whitelist: listed non-2xx statuses are
// decoded into result instead of raising an error. The DM-send and
// connection-send endpoints encode business rejection as an HTTP 422 payload
// with its own success flag, so callers branch on the body, not the status.
func (c *Client) requestSoft(ctx context.Context, method, path string, body any, result any, softStatuses ...int) error {
	return c.do(ctx, method, path, body, result, softStatuses)
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any, softStatuses []int) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackendRequest(domainOf(path), method, "error", time.Since(start))
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveBackendRequest(domainOf(path), method, statusClass(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 400 && !statusIn(resp.StatusCode, softStatuses) {
		return decodeError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
		if eb.Detail != "" {
			apiErr.Detail = eb.Detail
		} else if eb.Message != "" {
			apiErr.Detail = eb.Message
		}
	}
	return apiErr
}

func statusIn(status int, list []int) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}

func statusClass(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// domainOf extracts the backend domain label from an API path, e.g.
// /api/v1/linkedin/leads/42 -> linkedin.
func domainOf(path string) string {
	const prefix = "/api/v1/"
	if !strings.HasPrefix(path, prefix) {
		return "other"
	}
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "other"
	}
	return rest
}
