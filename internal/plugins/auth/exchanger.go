package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tsmatelier/storefront/internal/backend"
	"github.com/tsmatelier/storefront/internal/metrics"
)

// ExchangeKind classifies why a credential exchange failed.
type ExchangeKind string

const (
	KindValidation     ExchangeKind = "validation"
	KindAuthentication ExchangeKind = "authentication"
	KindTransport      ExchangeKind = "transport"
	KindMalformed      ExchangeKind = "malformed"
)

// maxLoginBody caps how much of a login response is read.
const maxLoginBody = 1 << 20

// Failure reasons shown to the user.
const (
	reasonMissingCredentials = "missing credentials"
	reasonAuthFailed         = "authentication failed"
	reasonMalformed          = "malformed response"
	reasonNoToken            = "no token"
	reasonInvalidToken       = "invalid token"
	reasonUnreachable        = "cannot reach server"
)

// ExchangeError is returned by Exchange for every failure. Reason is safe to
// show on the login form.
type ExchangeError struct {
	Kind   ExchangeKind
	Reason string

	// Status is the backend's HTTP status for authentication failures, else 0.
	Status int
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("credential exchange (%s): %s", e.Kind, e.Reason)
}

// Exchanger trades email/password for backend tokens. It never writes the
// session store; the service does that after a successful exchange.
type Exchanger interface {
	Exchange(ctx context.Context, creds Credentials) (*Identity, error)
}

// backendExchanger calls POST /auth/login on the backend.
type backendExchanger struct {
	client  *backend.Client
	metrics metrics.Recorder
}

// NewExchanger creates an Exchanger that authenticates against client.
func NewExchanger(client *backend.Client, rec metrics.Recorder) Exchanger {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &backendExchanger{client: client, metrics: rec}
}

// Exchange posts the credentials and maps the response onto an Identity.
func (x *backendExchanger) Exchange(ctx context.Context, creds Credentials) (*Identity, error) {
	id, err := x.exchange(ctx, creds)

	outcome := "success"
	var xe *ExchangeError
	if errors.As(err, &xe) {
		outcome = string(xe.Kind)
	}
	x.metrics.RecordLogin(outcome)

	return id, err
}

func (x *backendExchanger) exchange(ctx context.Context, creds Credentials) (*Identity, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, &ExchangeError{Kind: KindValidation, Reason: reasonMissingCredentials}
	}

	body, err := backend.JSONBody(map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	})
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(ctx, http.MethodPost, "/auth/login", body, header)
	if err != nil {
		slog.Error("login request failed", slog.Any("error", err))
		return nil, &ExchangeError{Kind: KindTransport, Reason: reasonUnreachable}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, authFailure(resp)
	}

	var user backendUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxLoginBody)).Decode(&user); err != nil {
		return nil, &ExchangeError{Kind: KindMalformed, Reason: reasonMalformed}
	}
	if user.AccessToken == "" {
		return nil, &ExchangeError{Kind: KindMalformed, Reason: reasonNoToken}
	}

	expires, err := tokenExpiry(user.AccessToken)
	if err != nil {
		slog.Warn("backend issued unreadable access token", slog.Any("error", err))
		return nil, &ExchangeError{Kind: KindMalformed, Reason: reasonInvalidToken}
	}

	return &Identity{
		UserID:             user.ID,
		DisplayName:        user.FirstName + " " + user.LastName,
		Email:              user.Username,
		Roles:              user.Roles,
		AccessToken:        user.AccessToken,
		RefreshToken:       user.RefreshToken,
		AccessTokenExpires: expires,
	}, nil
}

// authFailure builds the error for a non-2xx login response. Only bodies that
// declare a JSON content type are parsed.
func authFailure(resp *http.Response) *ExchangeError {
	xe := &ExchangeError{Kind: KindAuthentication, Status: resp.StatusCode}

	if !isJSON(resp.Header.Get("Content-Type")) {
		xe.Reason = fmt.Sprintf("server returned an unexpected error (status: %d)", resp.StatusCode)
		return xe
	}

	var payload struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLoginBody))
	if err == nil && json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		xe.Reason = payload.Message
	} else {
		xe.Reason = reasonAuthFailed
	}
	return xe
}

// isJSON matches application/json and any +json media type.
func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature
// and returns it in epoch milliseconds. The backend is the token's verifier.
func tokenExpiry(token string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return 0, err
	}
	if exp == nil {
		return 0, errors.New("token has no exp claim")
	}
	return exp.Unix() * 1000, nil
}
