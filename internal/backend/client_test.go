package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// countingRecorder captures metric calls for assertions.
type countingRecorder struct {
	statuses []int
	failures int
}

func (r *countingRecorder) RecordBackendStatus(code int)       { r.statuses = append(r.statuses, code) }
func (r *countingRecorder) RecordBackendFailure()              { r.failures++ }
func (r *countingRecorder) RecordBackendLatency(time.Duration) {}
func (r *countingRecorder) RecordLogin(string)                 {}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *countingRecorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	rec := &countingRecorder{}
	return NewClient(srv.URL, srv.Client(), rec), rec
}

func TestRequest_AttachesBearerAndDefaults(t *testing.T) {
	var got http.Header
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	})

	raw, err := c.Request(context.Background(), "/me", RequestOptions{
		Token: &oauth2.Token{AccessToken: "abc", TokenType: "Bearer"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, []int{200}, rec.statuses)
}

func TestRequest_AnonymousHasNoAuthorization(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := c.Request(context.Background(), "/products", RequestOptions{})
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

func TestRequest_CallerHeadersOverrideDefaults(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := c.Request(context.Background(), "/upload", RequestOptions{
		Method: http.MethodPost,
		Body:   strings.NewReader("a=b"),
		Header: http.Header{
			"accept":       {"text/plain"},
			"Content-Type": {""},
			"X-Trace":      {"t1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", got.Get("Accept"))
	assert.Equal(t, "t1", got.Get("X-Trace"))
	assert.NotEqual(t, "application/json", got.Get("Content-Type"))
}

func TestRequest_NoContentAndEmptyBody(t *testing.T) {
	for _, tc := range []struct {
		name string
		h    http.HandlerFunc
	}{
		{"204", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }},
		{"empty 200", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }},
		{"null", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "null") }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, tc.h)
			raw, err := c.Request(context.Background(), "/x", RequestOptions{})
			require.NoError(t, err)
			assert.Nil(t, raw)
		})
	}
}

func TestRequest_HTTPFailureCarriesBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message":"forbidden for role"}`)
	})

	_, err := c.Request(context.Background(), "/test/admin", RequestOptions{})
	var f *HTTPFailure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, http.StatusForbidden, f.StatusCode)
	assert.Equal(t, "forbidden for role", f.Message)
	assert.JSONEq(t, `{"message":"forbidden for role"}`, string(f.Body))
	assert.Equal(t, http.StatusForbidden, StatusOf(err))
}

func TestRequest_HTTPFailureNonJSONFallsBack(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>upstream down</html>")
	})

	_, err := c.Request(context.Background(), "/products", RequestOptions{})
	var f *HTTPFailure
	require.ErrorAs(t, err, &f)
	assert.JSONEq(t, fallbackErrorBody, string(f.Body))
	assert.Equal(t, "failed to process API error response", f.Message)
}

func TestRequest_InvalidJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	})

	_, err := c.Request(context.Background(), "/x", RequestOptions{})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRequest_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &countingRecorder{}
	c := NewClient(url, nil, rec)
	_, err := c.Request(context.Background(), "/x", RequestOptions{})
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Equal(t, 1, rec.failures)
	assert.Zero(t, StatusOf(err))
}

func TestGetJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/abc":
			_, _ = io.WriteString(w, `{"sku":"abc","name":"Camisa"}`)
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"not found"}`)
		}
	})

	var p struct {
		SKU  string `json:"sku"`
		Name string `json:"name"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/products/abc", nil, &p))
	assert.Equal(t, "Camisa", p.Name)

	err := c.GetJSON(context.Background(), "/empty", nil, &p)
	assert.ErrorIs(t, err, ErrNoContent)

	err = c.GetJSON(context.Background(), "/products/missing", nil, &p)
	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, ErrUnreachable))
}
