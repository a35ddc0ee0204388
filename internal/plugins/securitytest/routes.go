package securitytest

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the security test routes. They are open to
// visitors; the backend decides what each level returns.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/test-security", h.Show)
	e.POST("/test-security/:level", h.Probe)
}
