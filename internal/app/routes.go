package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tsmatelier/storefront/internal/database"
	"github.com/tsmatelier/storefront/internal/metrics"
	"github.com/tsmatelier/storefront/internal/middleware"
	"github.com/tsmatelier/storefront/internal/plugins/auth"
	"github.com/tsmatelier/storefront/internal/plugins/catalog"
	"github.com/tsmatelier/storefront/internal/plugins/securitytest"
	"github.com/tsmatelier/storefront/internal/templates/layouts"
	"github.com/tsmatelier/storefront/internal/templates/pages"
)

// RegisterRoutes wires the plugins and sets up all application routes. This
// is the single place where routes are aggregated.
func (a *App) RegisterRoutes() error {
	e := a.Echo

	// --- Auth plugin ---
	signer, err := auth.NewCookieSigner(a.Config.Auth.SecretKey, a.Config.Auth.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating cookie signer: %w", err)
	}
	authService := auth.NewAuthService(
		auth.NewExchanger(a.Backend, a.Metrics),
		auth.NewSessionStore(a.Redis, a.Config.Auth.SessionTTL),
		signer,
		auth.UnsupportedRefresher{},
		a.Backend,
		a.Config.Auth.SessionTTL,
	)

	// Every page reads the session for the header, so it loads globally.
	e.Use(auth.LoadSession(authService))
	middleware.LayoutInjector = injectLayout

	auth.RegisterRoutes(e, auth.NewHandler(authService),
		middleware.RateLimit(a.Config.RateLimit.LoginPerMinute),
		middleware.RateLimit(a.Config.RateLimit.ForgotPerMinute),
	)

	// --- Catalog plugin ---
	catalog.RegisterRoutes(e, catalog.NewHandler(catalog.NewCatalogService(a.Backend)))

	// --- Security test plugin ---
	securitytest.RegisterRoutes(e, securitytest.NewHandler(securitytest.NewProber(a.Backend)))

	// --- Public routes ---
	e.GET("/", func(c echo.Context) error {
		return middleware.Render(c, http.StatusOK, pages.Landing())
	})

	// Health check for the container orchestrator. Redis holds every session,
	// so the storefront is unhealthy without it.
	e.GET("/healthz", func(c echo.Context) error {
		if err := database.Ping(c.Request().Context(), a.Redis); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/metrics", echo.WrapHandler(metrics.Handler(a.Registry)))

	return nil
}

// injectLayout copies session and request data into the render context for
// the page shell.
func injectLayout(c echo.Context, ctx context.Context) context.Context {
	if rec := auth.GetRecord(c); rec != nil {
		ctx = layouts.SetIsAuthenticated(ctx, true)
		ctx = layouts.SetUserName(ctx, rec.DisplayName)
		ctx = layouts.SetUserRoles(ctx, rec.Roles)
	}
	ctx = layouts.SetSessionExpired(ctx, auth.SessionExpired(c))
	ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
	ctx = layouts.SetFlashSuccess(ctx, middleware.GetFlash(c, middleware.FlashSuccess))
	ctx = layouts.SetFlashError(ctx, middleware.GetFlash(c, middleware.FlashError))
	ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)
	return ctx
}
