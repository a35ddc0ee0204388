package securitytest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tsmatelier/storefront/internal/apperror"
	"github.com/tsmatelier/storefront/internal/middleware"
	"github.com/tsmatelier/storefront/internal/plugins/auth"
)

// Handler serves the security test page.
type Handler struct {
	prober Prober
}

// NewHandler creates a new security test handler.
func NewHandler(prober Prober) *Handler {
	return &Handler{prober: prober}
}

// Show renders the page (GET /test-security).
func (h *Handler) Show(c echo.Context) error {
	data := newPageView(auth.GetRecord(c), middleware.GetCSRFToken(c), nil)
	return middleware.Render(c, http.StatusOK, Page(data))
}

// Probe calls one test endpoint (POST /test-security/:level). HTMX gets the
// result fragment; plain form posts get the whole page with the result in
// place.
func (h *Handler) Probe(c echo.Context) error {
	level, ok := ParseLevel(c.Param("level"))
	if !ok {
		return apperror.NewNotFound("unknown test level")
	}

	rec := auth.GetRecord(c)
	result := h.prober.Probe(c.Request().Context(), level, rec.Token())

	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, ResultFragment(&result))
	}
	return middleware.Render(c, http.StatusOK, Page(newPageView(rec, middleware.GetCSRFToken(c), &result)))
}
