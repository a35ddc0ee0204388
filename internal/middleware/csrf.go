package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"
)

// csrfTokenLength is the number of random bytes in a CSRF token (32 bytes = 64 hex chars).
const csrfTokenLength = 32

// csrfCookieName is the name of the cookie that stores the CSRF token.
const csrfCookieName = "storefront_csrf"

// csrfHeaderName is the header that HTMX sends the CSRF token in.
const csrfHeaderName = "X-CSRF-Token"

// csrfFormField is the hidden form field name for non-HTMX form submissions.
const csrfFormField = "csrf_token"

// csrfContextKey is where the token is kept for templates.
const csrfContextKey = "csrf_token"

// CSRF returns middleware that implements the double-submit cookie pattern
// for CSRF protection on all state-changing requests (POST, PUT, PATCH, DELETE).
//
//  1. On every request, if no CSRF cookie exists, generate one and set it.
//  2. On mutating requests, compare the cookie value with either the
//     X-CSRF-Token header (HTMX) or the csrf_token form field.
//  3. If they don't match, reject with 403 Forbidden.
//
// A request that arrives without the cookie cannot pass: the freshly minted
// token was never seen by the page that submitted it.
//
// Every storefront form already carries the hidden field, so hx-post picks
// it up with the form values and no header wiring is needed.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			cookie, err := req.Cookie(csrfCookieName)
			if err != nil || cookie.Value == "" {
				token, genErr := generateCSRFToken()
				if genErr != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate CSRF token")
				}

				c.SetCookie(&http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false, // Readable by scripts that set the header.
					Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
					SameSite: http.SameSiteLaxMode,
				})
				c.Set(csrfContextKey, token)
				cookie = nil
			} else {
				c.Set(csrfContextKey, cookie.Value)
			}

			if isSafeMethod(req.Method) {
				return next(c)
			}

			if cookie == nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid or missing CSRF token")
			}

			submittedToken := req.Header.Get(csrfHeaderName)
			if submittedToken == "" {
				submittedToken = req.FormValue(csrfFormField)
			}

			if submittedToken == "" || subtle.ConstantTimeCompare([]byte(submittedToken), []byte(cookie.Value)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "invalid or missing CSRF token")
			}

			return next(c)
		}
	}
}

// isSafeMethod returns true for HTTP methods that should not change state.
func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

// generateCSRFToken generates a cryptographically random hex-encoded token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetCSRFToken retrieves the CSRF token from the Echo context for forms.
func GetCSRFToken(c echo.Context) string {
	if token, ok := c.Get(csrfContextKey).(string); ok {
		return token
	}
	return ""
}
