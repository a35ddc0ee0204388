// Package auth handles storefront sign-in against the backend REST API. It
// exchanges credentials for backend tokens, keeps those tokens in a
// server-side session record, and exposes the session to other plugins via
// middleware and the role gate.
//
// The browser only ever sees a signed session cookie; access and refresh
// tokens stay in Redis.
package auth

import (
	"slices"
	"time"

	"golang.org/x/oauth2"
)

// Roles issued by the backend.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// ErrorRefreshFailed marks a session whose access token expired and could not
// be renewed. The holder is treated as logged out.
const ErrorRefreshFailed = "RefreshFailed"

// Credentials is what the login form submits. Never stored.
type Credentials struct {
	Email    string
	Password string
}

// Identity is the successful result of a credential exchange.
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
	Roles       []string

	AccessToken  string
	RefreshToken string

	// AccessTokenExpires is the access token's exp claim in epoch milliseconds.
	AccessTokenExpires int64
}

// backendUser is the JSON body returned by POST /auth/login.
type backendUser struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Roles        []string `json:"roles"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

// --- Request DTOs (bound from HTTP requests) ---

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ForgotPasswordRequest holds the data submitted by the forgot-password form.
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

// --- Session ---

// SessionRecord is the per-browser-session state stored in Redis under
// session:{id}. All tabs holding the same cookie share one record.
type SessionRecord struct {
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`

	AccessToken        string `json:"access_token"`
	RefreshToken       string `json:"refresh_token,omitempty"`
	AccessTokenExpires int64  `json:"access_token_expires"`

	// Error is "" or ErrorRefreshFailed.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// newSessionRecord copies an Identity into a fresh record.
func newSessionRecord(id *Identity, now time.Time) *SessionRecord {
	return &SessionRecord{
		UserID:             id.UserID,
		DisplayName:        id.DisplayName,
		Email:              id.Email,
		Roles:              slices.Clone(id.Roles),
		AccessToken:        id.AccessToken,
		RefreshToken:       id.RefreshToken,
		AccessTokenExpires: id.AccessTokenExpires,
		CreatedAt:          now.UTC(),
	}
}

// Expired reports whether the access token is past its expiry at now.
func (r *SessionRecord) Expired(now time.Time) bool {
	return r.AccessTokenExpires > 0 && now.UnixMilli() >= r.AccessTokenExpires
}

// Authenticated reports whether the record represents a signed-in user.
func (r *SessionRecord) Authenticated() bool {
	return r != nil && r.AccessToken != "" && r.Error != ErrorRefreshFailed
}

// HasRole reports exact, case-sensitive membership of role.
func (r *SessionRecord) HasRole(role string) bool {
	return r != nil && slices.Contains(r.Roles, role)
}

// Token returns the access token in the shape the backend client expects,
// or nil when the record is not authenticated.
func (r *SessionRecord) Token() *oauth2.Token {
	if !r.Authenticated() {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: r.RefreshToken,
		Expiry:       time.UnixMilli(r.AccessTokenExpires),
	}
}
