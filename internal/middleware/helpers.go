package middleware

import (
	"context"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// LayoutInjector copies layout-relevant data from the Echo context (session,
// CSRF token, flash messages) into Go's context.Context so the page shell can
// read it. Registered once at startup in app/routes.go, which keeps this
// package free of plugin imports.
var LayoutInjector func(echo.Context, context.Context) context.Context

// IsHTMX returns true if the current request was initiated by HTMX and is not
// a boosted navigation. Boosted requests expect full pages. Handlers use this
// to decide whether to return a fragment or a full page.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true" &&
		c.Request().Header.Get("HX-Boosted") != "true"
}

// Render writes a Templ component to the response with the given status code.
// Before rendering, it runs the LayoutInjector (if registered) to copy
// session data into the Go context for the templates.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	ctx := c.Request().Context()

	if LayoutInjector != nil {
		ctx = LayoutInjector(c, ctx)
	}

	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(statusCode)
	return component.Render(ctx, c.Response().Writer)
}
