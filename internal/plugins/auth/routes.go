package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all auth-related routes on the given Echo instance.
// loginLimit and forgotLimit wrap the credential-handling POST endpoints;
// the account page additionally requires an authenticated session.
func RegisterRoutes(e *echo.Echo, h *Handler, loginLimit, forgotLimit echo.MiddlewareFunc) {
	// Public routes.
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login, loginLimit)
	e.POST("/forgot-password", h.ForgotPassword, forgotLimit)
	e.POST("/logout", h.Logout)

	e.GET(accountPath, h.Account, RequireAuth())
}
