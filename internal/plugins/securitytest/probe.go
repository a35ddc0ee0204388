// Package securitytest serves a diagnostic page that calls the backend's
// role-protected test endpoints with the visitor's credentials and shows what
// came back. Buttons are enabled through the auth role gate; the backend
// remains the authority on every call.
package securitytest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/tsmatelier/storefront/internal/backend"
	"github.com/tsmatelier/storefront/internal/plugins/auth"
)

// Level is one of the three protected test resources.
type Level string

const (
	LevelPublic Level = "public"
	LevelUser   Level = "user"
	LevelAdmin  Level = "admin"
)

// Levels lists the test resources in display order.
var Levels = []Level{LevelPublic, LevelUser, LevelAdmin}

// ParseLevel validates a path segment.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Role is the role the backend requires for the level, or "" when public.
func (l Level) Role() string {
	switch l {
	case LevelUser:
		return auth.RoleCustomer
	case LevelAdmin:
		return auth.RoleAdmin
	default:
		return ""
	}
}

// maxResultBytes bounds how much of a test endpoint body is shown.
const maxResultBytes = 4 << 10

// genericFailure is shown when the backend cannot be reached.
const genericFailure = "Falha ao buscar recurso."

// Result is the outcome of one probe.
type Result struct {
	Level   Level
	Body    string
	Status  int
	Success bool
}

// Prober calls a test endpoint.
type Prober interface {
	Probe(ctx context.Context, level Level, token *oauth2.Token) Result
}

// Doer is the raw-call part of the backend client.
type Doer interface {
	Do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error)
}

type prober struct {
	api Doer
}

// NewProber creates a prober over the backend client.
func NewProber(api Doer) Prober {
	return &prober{api: api}
}

// Probe performs GET /test/{level}. The bearer is attached only for
// non-public levels. The endpoints answer with plain text.
func (p *prober) Probe(ctx context.Context, level Level, token *oauth2.Token) Result {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "text/plain, */*")
	if level != LevelPublic && token != nil && token.AccessToken != "" {
		header.Set("Authorization", token.Type()+" "+token.AccessToken)
	}

	resp, err := p.api.Do(ctx, http.MethodGet, "/test/"+string(level), nil, header)
	if err != nil {
		return Result{Level: level, Body: genericFailure}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResultBytes))
		return Result{
			Level:  level,
			Status: resp.StatusCode,
			Body:   fmt.Sprintf("Acesso Negado (Status: %d)", resp.StatusCode),
		}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBytes))
	if err != nil {
		slog.Warn("reading test endpoint body",
			slog.String("level", string(level)),
			slog.Any("error", err),
		)
		return Result{Level: level, Status: resp.StatusCode, Body: genericFailure}
	}
	return Result{Level: level, Status: resp.StatusCode, Body: string(b), Success: true}
}

var _ Doer = (*backend.Client)(nil)
