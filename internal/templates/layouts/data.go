// data.go provides typed context helpers for passing layout data from
// handlers/middleware to templates. This avoids importing plugin types in
// the layouts package; only simple types are stored.
//
// Data flow: Handler/Middleware → Echo Context → LayoutInjector → Go Context → template
package layouts

import (
	"context"
	"slices"
)

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey string

const (
	keyIsAuthenticated ctxKey = "layout_is_authenticated"
	keyUserName        ctxKey = "layout_user_name"
	keyUserRoles       ctxKey = "layout_user_roles"
	keySessionExpired  ctxKey = "layout_session_expired"
	keyCSRFToken       ctxKey = "layout_csrf_token"
	keyFlashSuccess    ctxKey = "layout_flash_success"
	keyFlashError      ctxKey = "layout_flash_error"
	keyActivePath      ctxKey = "layout_active_path"
)

// --- Setters (called by the layout injector in app/routes.go) ---

// SetIsAuthenticated marks whether the current request has a valid session.
func SetIsAuthenticated(ctx context.Context, authed bool) context.Context {
	return context.WithValue(ctx, keyIsAuthenticated, authed)
}

// SetUserName stores the authenticated user's display name in context.
func SetUserName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyUserName, name)
}

// SetUserRoles stores the roles the backend issued to the user.
func SetUserRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, keyUserRoles, slices.Clone(roles))
}

// SetSessionExpired marks that the visitor's session ended on a failed
// token refresh, so the header can tell them to sign in again.
func SetSessionExpired(ctx context.Context, expired bool) context.Context {
	return context.WithValue(ctx, keySessionExpired, expired)
}

// SetCSRFToken stores the CSRF token for forms.
func SetCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyCSRFToken, token)
}

// SetFlashSuccess stores a success flash message for the current render.
func SetFlashSuccess(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, keyFlashSuccess, msg)
}

// SetFlashError stores an error flash message for the current render.
func SetFlashError(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, keyFlashError, msg)
}

// SetActivePath stores the current request path for header rules.
func SetActivePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, keyActivePath, path)
}

// --- Getters (called by templates) ---

// IsAuthenticated returns true if the current request has a valid session.
func IsAuthenticated(ctx context.Context) bool {
	authed, _ := ctx.Value(keyIsAuthenticated).(bool)
	return authed
}

// GetUserName returns the authenticated user's display name, or "".
func GetUserName(ctx context.Context) string {
	name, _ := ctx.Value(keyUserName).(string)
	return name
}

// GetUserRoles returns the user's roles, or nil.
func GetUserRoles(ctx context.Context) []string {
	roles, _ := ctx.Value(keyUserRoles).([]string)
	return roles
}

// IsSessionExpired returns true if the session ended on a failed refresh.
func IsSessionExpired(ctx context.Context) bool {
	expired, _ := ctx.Value(keySessionExpired).(bool)
	return expired
}

// GetCSRFToken returns the CSRF token, or "".
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(keyCSRFToken).(string)
	return token
}

// GetFlashSuccess returns the success flash message, or "".
func GetFlashSuccess(ctx context.Context) string {
	msg, _ := ctx.Value(keyFlashSuccess).(string)
	return msg
}

// GetFlashError returns the error flash message, or "".
func GetFlashError(ctx context.Context) string {
	msg, _ := ctx.Value(keyFlashError).(string)
	return msg
}

// GetActivePath returns the current request path, or "".
func GetActivePath(ctx context.Context) string {
	path, _ := ctx.Value(keyActivePath).(string)
	return path
}
