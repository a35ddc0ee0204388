package auth

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tsmatelier/storefront/internal/apperror"
	"github.com/tsmatelier/storefront/internal/middleware"
)

// Context keys for storing session data in Echo context. Other plugins read
// them through the exported getters below.
const (
	contextKeySession        = "auth_session"
	contextKeySessionExpired = "auth_session_expired"
)

// LoadSession returns middleware that resolves the session cookie, if any,
// and stores the record in the context. It never rejects a request: pages
// render for anonymous visitors too.
func LoadSession(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie := getSessionCookie(c)
			if cookie == "" {
				return next(c)
			}

			sess, err := service.Resolve(c.Request().Context(), cookie)
			if err != nil {
				// Stale or forged cookie: drop it. Store errors keep the cookie so
				// a Redis blip does not log everyone out.
				if apperror.SafeCode(err) == http.StatusUnauthorized {
					clearSessionCookie(c)
				} else {
					slog.Error("resolving session", slog.Any("error", err))
				}
				return next(c)
			}

			SetSession(c, sess)
			return next(c)
		}
	}
}

// RequireAuth returns middleware that only lets authenticated sessions
// through. Must run after LoadSession.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetRecord(c) == nil {
				return handleUnauthenticated(c)
			}
			return next(c)
		}
	}
}

// handleUnauthenticated sends browsers to the login page. HTMX requests get
// an HX-Redirect so the full page navigates.
func handleUnauthenticated(c echo.Context) error {
	middleware.SetFlash(c, middleware.FlashError, loginRequiredMessage)
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/login")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// --- Exported accessors for other plugins ---

// SetSession stores sess in the context. LoadSession is the normal caller.
func SetSession(c echo.Context, sess *Session) {
	c.Set(contextKeySession, sess)
	if sess.Expired {
		c.Set(contextKeySessionExpired, true)
	}
}

// GetRecord returns the authenticated session record, or nil for anonymous
// visitors and sessions whose token could not be refreshed.
func GetRecord(c echo.Context) *SessionRecord {
	sess, ok := c.Get(contextKeySession).(*Session)
	if !ok || sess.Expired || !sess.Record.Authenticated() {
		return nil
	}
	return sess.Record
}

// SessionExpired reports whether the visitor's session ended because its
// access token could not be renewed.
func SessionExpired(c echo.Context) bool {
	expired, _ := c.Get(contextKeySessionExpired).(bool)
	return expired
}
