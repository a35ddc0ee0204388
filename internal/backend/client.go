// Package backend is the HTTP client for the storefront REST API. It attaches
// the caller's bearer token, merges request headers, and turns non-2xx
// responses into *HTTPFailure values so callers never parse error pages.
//
// Authorization is enforced by the API, not here: a request without a token
// is sent as-is and the API decides what an anonymous caller may see.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/tsmatelier/storefront/internal/metrics"
)

// maxBodyBytes caps how much of a response body is read into memory.
const maxBodyBytes = 4 << 20

var (
	// ErrUnreachable wraps transport failures (DNS, refused connections,
	// timeouts) where no HTTP response was received.
	ErrUnreachable = errors.New("backend unreachable")

	// ErrInvalidResponse is returned when a 2xx body is not valid JSON.
	ErrInvalidResponse = errors.New("backend returned invalid JSON")

	// ErrNoContent is returned by GetJSON when the response carried no body.
	ErrNoContent = errors.New("backend returned no content")
)

// Client calls the REST API rooted at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
	metrics metrics.Recorder
}

// NewClient creates a client for the API at baseURL (without a trailing
// slash). A nil httpClient gets a default client with a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client, rec metrics.Recorder) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Client{baseURL: baseURL, http: httpClient, metrics: rec}
}

// BaseURL returns the API root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions customizes a single Request call.
type RequestOptions struct {
	// Method defaults to GET.
	Method string

	// Body is sent as-is. Callers encode it; see JSONBody.
	Body io.Reader

	// Header is merged over the defaults. A key whose only value is ""
	// removes the default (e.g. to unset Content-Type for form bodies).
	Header http.Header

	// Token is the session's access token. Nil sends the request anonymously.
	Token *oauth2.Token
}

// JSONBody encodes v for use as RequestOptions.Body.
func JSONBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Request performs an API call and returns the raw JSON body.
//
// A 204 response, or a 2xx response with an empty body, yields (nil, nil).
// A status outside [200,299] yields an *HTTPFailure. Transport failures wrap
// ErrUnreachable.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	resp, err := c.Do(ctx, method, path, opts.Body, buildHeader(opts))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPFailure(resp)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %w", ErrUnreachable, method, path, err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s %s", ErrInvalidResponse, method, path)
	}
	if bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	return json.RawMessage(body), nil
}

// GetJSON fetches path and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, path string, token *oauth2.Token, v any) error {
	raw, err := c.Request(ctx, path, RequestOptions{Token: token})
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%w: GET %s", ErrNoContent, path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrInvalidResponse, path, err)
	}
	return nil
}

// Do sends a raw request and returns the response unread. Callers that need
// their own status or content-type handling (login, plain-text endpoints)
// use this directly; the caller must close the body.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request %s %s: %w", method, path, err)
	}
	for k, vs := range header {
		req.Header[k] = vs
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RecordBackendLatency(time.Since(start))
	if err != nil {
		c.metrics.RecordBackendFailure()
		slog.Warn("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, path, err)
	}

	c.metrics.RecordBackendStatus(resp.StatusCode)
	return resp, nil
}

// buildHeader returns the default headers with the bearer token and the
// caller's overrides applied, in that order.
func buildHeader(opts RequestOptions) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")

	if opts.Token != nil && opts.Token.AccessToken != "" {
		h.Set("Authorization", opts.Token.Type()+" "+opts.Token.AccessToken)
	}

	for k, vs := range opts.Header {
		key := http.CanonicalHeaderKey(k)
		if len(vs) == 0 || (len(vs) == 1 && vs[0] == "") {
			h.Del(key)
			continue
		}
		h[key] = append([]string(nil), vs...)
	}

	return h
}
