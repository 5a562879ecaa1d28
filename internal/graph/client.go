// Package graph is a thin HTTP client for the Facebook Graph API.
//
// It owns exactly the transport concerns: URL construction, the access
// token, JSON decoding, and surfacing non-success responses as *APIError.
// Everything above it (request shaping, pagination, post-processing) lives
// in the manager package.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultVersion is the Graph API version requests are issued against
	// unless the config overrides it.
	DefaultVersion = "v23.0"

	defaultBaseURL = "https://graph.facebook.com"
)

// Request describes one call against the Graph API.
// Endpoint is relative to the versioned root, e.g. "123456/feed";
// an empty Endpoint addresses the root itself (batch calls).
type Request struct {
	Method   string            // http.MethodGet, http.MethodPost, http.MethodDelete
	Endpoint string            //
	Params   map[string]string // query-string parameters
	Body     map[string]any    // JSON body, or nil
}

// Doer issues a single Graph API request and returns the decoded response.
// *Client is the production implementation; tests substitute fakes.
type Doer interface {
	Request(ctx context.Context, req Request) (any, error)
}

// Client talks to one Graph API host with one access token.
// Constructed once, immutable afterwards; safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
}

// NewClient creates a Client for the given page access token.
// version may be "" to use DefaultVersion.
func NewClient(accessToken, version string) *Client {
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      accessToken,
		version:    version,
	}
}

// WithBaseURL overrides the API host. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// Request issues req and returns the decoded JSON response. The result is a
// map for object responses and a slice for batch responses.
// Any non-2xx response, and any 2xx response carrying an "error" envelope,
// is returned as *APIError.
func (c *Client) Request(ctx context.Context, req Request) (any, error) {
	u := c.baseURL + "/" + c.version
	if req.Endpoint != "" {
		u += "/" + strings.TrimPrefix(req.Endpoint, "/")
	}

	q := url.Values{}
	for k, v := range req.Params {
		q.Set(k, v)
	}
	q.Set("access_token", c.token)
	u += "?" + q.Encode()

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("graph: encode body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("graph: build request: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graph: %s %s: %w", req.Method, req.Endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graph: read response: %w", err)
	}

	var decoded any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			if resp.StatusCode >= 400 {
				return nil, &APIError{Status: resp.StatusCode, Message: snippet(raw)}
			}
			return nil, fmt.Errorf("graph: decode response: %w", err)
		}
	}

	if apiErr := extractError(decoded, resp.StatusCode); apiErr != nil {
		return nil, apiErr
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Message: snippet(raw)}
	}
	return decoded, nil
}

// extractError pulls the Graph error envelope out of an object response.
func extractError(decoded any, status int) *APIError {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil
	}
	errVal, ok := obj["error"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(errVal)
	if err != nil {
		return &APIError{Status: status, Message: fmt.Sprintf("%v", errVal)}
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(data, apiErr); err != nil {
		apiErr.Message = string(data)
	}
	return apiErr
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
