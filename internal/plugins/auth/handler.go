package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tsmatelier/storefront/internal/apperror"
	"github.com/tsmatelier/storefront/internal/middleware"
)

// accountPath is where a successful page login lands.
const accountPath = "/minha-conta"

// viewForgotPassword is the ?view= value that switches /login to the
// forgot-password form.
const viewForgotPassword = "forgot-password"

// Handler handles HTTP requests for login, logout, password recovery and the
// account page. Handlers are thin: they bind the request, call the service,
// and render the response.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// LoginForm renders the login page (GET /login). HTMX requests get the
// drawer fragment; ?view=forgot-password switches to the recovery form.
func (h *Handler) LoginForm(c echo.Context) error {
	data := formData{CSRFToken: middleware.GetCSRFToken(c)}

	if c.QueryParam("view") == viewForgotPassword {
		return middleware.Render(c, http.StatusOK, ForgotPasswordPage(data))
	}

	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, LoginDrawer(data))
	}

	if GetRecord(c) != nil {
		return c.Redirect(http.StatusSeeOther, accountPath)
	}
	return middleware.Render(c, http.StatusOK, LoginPage(data))
}

// Login processes the login form submission (POST /login). Failures
// re-render the form that was used with the exchange reason. Page logins go
// to the account page; drawer logins refresh the page they came from.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	drawer := c.FormValue("drawer") == "1"

	cookie, _, err := h.service.Login(c.Request().Context(), Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		data := formData{
			CSRFToken: middleware.GetCSRFToken(c),
			Email:     req.Email,
			Error:     loginErrorMessage(err),
		}
		if drawer && middleware.IsHTMX(c) {
			return middleware.Render(c, http.StatusOK, LoginDrawer(data))
		}
		return middleware.Render(c, http.StatusOK, LoginPage(data))
	}

	// A browser holds one session: signing in again ends the previous one.
	if old := getSessionCookie(c); old != "" {
		h.endSession(c, old)
	}
	setSessionCookie(c, cookie, h.service.CookieTTL())

	if middleware.IsHTMX(c) {
		if drawer {
			c.Response().Header().Set("HX-Refresh", "true")
		} else {
			c.Response().Header().Set("HX-Redirect", accountPath)
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, accountPath)
}

// Logout clears the session and the cookie (POST /logout).
func (h *Handler) Logout(c echo.Context) error {
	if cookie := getSessionCookie(c); cookie != "" {
		h.endSession(c, cookie)
	}
	clearSessionCookie(c)
	middleware.SetFlash(c, middleware.FlashSuccess, logoutMessage)

	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// endSession clears the record behind cookie. Store failures are logged and
// otherwise ignored; the caller replaces or clears the cookie either way.
func (h *Handler) endSession(c echo.Context, cookie string) {
	if err := h.service.Logout(c.Request().Context(), cookie); err != nil {
		slog.Error("clearing session", slog.Any("error", err))
	}
}

// ForgotPassword processes the recovery form (POST /forgot-password). Any
// accepted submission shows the same confirmation.
func (h *Handler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	data := formData{CSRFToken: middleware.GetCSRFToken(c), Email: req.Email}
	if err := h.service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		data.Error = apperror.SafeMessage(err)
	} else {
		data.Success = forgotSuccessMessage
		data.Email = ""
	}
	return middleware.Render(c, http.StatusOK, ForgotPasswordPage(data))
}

// Account renders the signed-in user's account page (GET /minha-conta).
// Routed behind RequireAuth.
func (h *Handler) Account(c echo.Context) error {
	return middleware.Render(c, http.StatusOK, AccountPage(GetRecord(c)))
}

// loginErrorMessage picks the text shown on the login form.
func loginErrorMessage(err error) string {
	var xe *ExchangeError
	if errors.As(err, &xe) {
		return xe.Reason
	}
	return apperror.SafeMessage(err)
}
