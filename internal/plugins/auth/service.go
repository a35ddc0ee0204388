package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsmatelier/storefront/internal/apperror"
	"github.com/tsmatelier/storefront/internal/backend"
)

// ErrRefreshUnsupported is returned by UnsupportedRefresher.
var ErrRefreshUnsupported = errors.New("token refresh is not supported by the backend")

// TokenRefresher renews an expired access token. On success it returns the
// new token set; the service overwrites the record with it.
type TokenRefresher interface {
	Refresh(ctx context.Context, rec *SessionRecord) (*Identity, error)
}

// UnsupportedRefresher always fails. The backend has no refresh endpoint, so
// an expired token ends the session.
type UnsupportedRefresher struct{}

// Refresh implements TokenRefresher.
func (UnsupportedRefresher) Refresh(context.Context, *SessionRecord) (*Identity, error) {
	return nil, ErrRefreshUnsupported
}

// Session is a resolved browser session: the record plus its id. Expired is
// set when the record was found but its token could not be renewed.
type Session struct {
	ID      string
	Record  *SessionRecord
	Expired bool
}

// AuthService defines the business logic contract for authentication.
// Handlers call these methods; they never touch the store directly.
type AuthService interface {
	// Login exchanges credentials, stores a new record and returns the
	// signed cookie value.
	Login(ctx context.Context, creds Credentials) (cookie string, rec *SessionRecord, err error)

	// Resolve maps a cookie value to its session, applying the refresh policy.
	Resolve(ctx context.Context, cookie string) (*Session, error)

	// Logout clears the record behind the cookie.
	Logout(ctx context.Context, cookie string) error

	// ForgotPassword asks the backend to send recovery instructions.
	ForgotPassword(ctx context.Context, email string) error

	// CookieTTL is the lifetime to put on the session cookie.
	CookieTTL() time.Duration
}

// authService implements AuthService over an Exchanger and a SessionStore.
type authService struct {
	exchanger Exchanger
	store     SessionStore
	signer    *CookieSigner
	refresher TokenRefresher
	client    *backend.Client
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService creates the auth service. A nil refresher means
// UnsupportedRefresher.
func NewAuthService(x Exchanger, store SessionStore, signer *CookieSigner, refresher TokenRefresher, client *backend.Client, ttl time.Duration) AuthService {
	if refresher == nil {
		refresher = UnsupportedRefresher{}
	}
	return &authService{
		exchanger: x,
		store:     store,
		signer:    signer,
		refresher: refresher,
		client:    client,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Login runs the credential exchange and opens a session. Exchange failures
// are returned unchanged as *ExchangeError.
func (s *authService) Login(ctx context.Context, creds Credentials) (string, *SessionRecord, error) {
	creds.Email = strings.TrimSpace(creds.Email)

	id, err := s.exchanger.Exchange(ctx, creds)
	if err != nil {
		return "", nil, err
	}

	sid := uuid.NewString()
	rec := newSessionRecord(id, s.now())
	if err := s.store.Write(ctx, sid, rec); err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	cookie, err := s.signer.Sign(sid, rec)
	if err != nil {
		_ = s.store.Clear(ctx, sid)
		return "", nil, apperror.NewInternal(err)
	}

	slog.Info("user logged in",
		slog.String("user_id", rec.UserID),
		slog.Any("roles", rec.Roles),
	)

	return cookie, rec, nil
}

// Resolve verifies the cookie, loads the record, and refreshes the access
// token when it has expired. A record that fails to refresh is marked
// RefreshFailed and returned with Expired set; callers treat it as logged out.
func (s *authService) Resolve(ctx context.Context, cookie string) (*Session, error) {
	sid, err := s.signer.Verify(cookie)
	if err != nil {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}

	rec, err := s.store.Read(ctx, sid)
	if errors.Is(err, ErrNoSession) {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	sess := &Session{ID: sid, Record: rec}
	if rec.Error == ErrorRefreshFailed {
		sess.Expired = true
		return sess, nil
	}
	if !rec.Expired(s.now()) {
		return sess, nil
	}

	id, err := s.refresher.Refresh(ctx, rec)
	if err != nil {
		slog.Info("access token refresh failed",
			slog.String("user_id", rec.UserID),
			slog.Any("error", err),
		)
		if markErr := s.store.MarkRefreshFailed(ctx, sid); markErr != nil && !errors.Is(markErr, ErrNoSession) {
			return nil, apperror.NewInternal(markErr)
		}
		rec.Error = ErrorRefreshFailed
		sess.Expired = true
		return sess, nil
	}

	refreshed := newSessionRecord(id, rec.CreatedAt)
	if err := s.store.Write(ctx, sid, refreshed); err != nil {
		return nil, apperror.NewInternal(err)
	}
	sess.Record = refreshed
	return sess, nil
}

// Logout removes the record. An invalid cookie has nothing to clear.
func (s *authService) Logout(ctx context.Context, cookie string) error {
	sid, err := s.signer.Verify(cookie)
	if err != nil {
		return nil
	}
	if err := s.store.Clear(ctx, sid); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// ForgotPassword posts the email to the backend. Any 2xx counts as sent; the
// response payload is ignored so the form cannot probe which emails exist.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.NewValidation("email is required")
	}

	body, err := backend.JSONBody(map[string]string{"email": email})
	if err != nil {
		return apperror.NewInternal(err)
	}

	_, err = s.client.Request(ctx, "/auth/forgot-password", backend.RequestOptions{
		Method: "POST",
		Body:   body,
	})
	if err != nil && !errors.Is(err, backend.ErrInvalidResponse) {
		slog.Warn("forgot-password request failed",
			slog.Int("status", backend.StatusOf(err)),
			slog.Any("error", err),
		)
		return apperror.NewBadGateway("an error occurred, please try again later", err)
	}
	return nil
}

// CookieTTL implements AuthService.
func (s *authService) CookieTTL() time.Duration {
	return s.ttl
}
