package catalog

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the public catalog routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/produto/:sku", h.Product)
	e.GET("/colecao/:slug", h.Collection)
	e.GET("/guia-de-tamanhos", h.SizeGuide)
}
