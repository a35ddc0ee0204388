// Package app is the application bootstrap and dependency injection root.
// It creates and holds all shared infrastructure (Redis client, metrics
// registry, backend client, Echo instance) and wires together the plugins.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/tsmatelier/storefront/internal/apperror"
	"github.com/tsmatelier/storefront/internal/backend"
	"github.com/tsmatelier/storefront/internal/config"
	"github.com/tsmatelier/storefront/internal/metrics"
	"github.com/tsmatelier/storefront/internal/middleware"
	"github.com/tsmatelier/storefront/internal/templates/pages"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Redis holds the server-side session records.
	Redis *redis.Client

	// Registry is the Prometheus registry served on /metrics.
	Registry *prometheus.Registry

	// Metrics records backend and login metrics into Registry.
	Metrics metrics.Recorder

	// Backend is the shared client for the storefront REST API.
	Backend *backend.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// c.RealIP() must be the visitor for per-IP rate limiting.
	middleware.TrustedProxies(e, cfg.TrustedProxies)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewCollector(reg)

	app := &App{
		Config:   cfg,
		Redis:    rdb,
		Registry: reg,
		Metrics:  rec,
		Backend:  backend.NewClient(cfg.Backend.URL, &http.Client{Timeout: cfg.Backend.Timeout}, rec),
		Echo:     e,
	}

	app.setupMiddleware()

	e.HTTPErrorHandler = app.errorHandler

	// Serve static files (CSS, htmx, images).
	e.Static("/static", "static")

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: the request id and logger wrap everything so panics turned
// into errors by Recovery are still logged with their final status.
func (a *App) setupMiddleware() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.RequestLogger())
	a.Echo.Use(middleware.Recovery())
	a.Echo.Use(middleware.SecurityHeaders())

	// CSRF -- double-submit cookie pattern on all state-changing requests.
	a.Echo.Use(middleware.CSRF())
	a.Echo.Use(middleware.Flash())
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) and Echo's HTTP errors to rendered pages. Internal causes are
// logged, never shown.
//
// For HTMX partial requests that hit errors, we set HX-Retarget and
// HX-Reswap headers so the error page replaces the full body instead of
// being swapped into a partial target.
func (a *App) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
				slog.String("request_id", middleware.GetRequestID(c)),
			)
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("request_id", middleware.GetRequestID(c)),
		)
	}

	if middleware.IsHTMX(c) {
		if code == http.StatusUnauthorized {
			c.Response().Header().Set("HX-Redirect", "/login")
			_ = c.NoContent(http.StatusNoContent)
			return
		}
		c.Response().Header().Set("HX-Retarget", "body")
		c.Response().Header().Set("HX-Reswap", "innerHTML")
	}

	if code == http.StatusUnauthorized {
		_ = c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	if code == http.StatusNotFound {
		_ = middleware.Render(c, code, pages.NotFound(""))
		return
	}
	_ = middleware.Render(c, code, pages.ErrorPage(code, errorMessage(code)))
}

// errorMessage returns the visitor-facing text for a status code.
func errorMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Não foi possível processar a solicitação."
	case http.StatusForbidden:
		return "Você não tem permissão para acessar este recurso."
	case http.StatusMethodNotAllowed:
		return "Esta ação não é permitida."
	case http.StatusUnprocessableEntity:
		return "Os dados enviados não puderam ser processados."
	case http.StatusTooManyRequests:
		return "Muitas tentativas. Tente novamente em instantes."
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "A loja está temporariamente indisponível. Tente novamente mais tarde."
	default:
		return "Ocorreu um erro inesperado. Tente novamente."
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting storefront server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
		slog.String("backend", a.Backend.BaseURL()),
	)
	return a.Echo.Start(addr)
}
