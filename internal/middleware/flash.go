package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const flashCookiePrefix = "storefront_flash_"

// SetFlash queues a one-shot message for the next page render, typically
// after a redirect.
func SetFlash(c echo.Context, kind, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookiePrefix + kind,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash returns middleware that moves queued flash messages into the
// request context and expires their cookies.
func Flash() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, kind := range []string{FlashSuccess, FlashError} {
				cookie, err := c.Cookie(flashCookiePrefix + kind)
				if err != nil || cookie.Value == "" {
					continue
				}
				if msg, err := url.QueryUnescape(cookie.Value); err == nil {
					c.Set(flashCookiePrefix+kind, msg)
				}
				c.SetCookie(&http.Cookie{
					Name:   flashCookiePrefix + kind,
					Path:   "/",
					MaxAge: -1,
				})
			}
			return next(c)
		}
	}
}

// GetFlash returns the flash message of kind for this request, or "".
func GetFlash(c echo.Context, kind string) string {
	msg, _ := c.Get(flashCookiePrefix + kind).(string)
	return msg
}
