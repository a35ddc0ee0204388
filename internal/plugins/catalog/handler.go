package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tsmatelier/storefront/internal/middleware"
	"github.com/tsmatelier/storefront/internal/plugins/auth"
)

// Handler serves product, collection and size-guide pages.
type Handler struct {
	service CatalogService
}

// NewHandler creates a new catalog handler.
func NewHandler(service CatalogService) *Handler {
	return &Handler{service: service}
}

// Product renders a product page (GET /produto/:sku). The selection comes
// from ?cor=, ?tamanho= and ?imagem=.
func (h *Handler) Product(c echo.Context) error {
	p, err := h.service.GetProduct(c.Request().Context(), c.Param("sku"), auth.GetRecord(c).Token())
	if err != nil {
		return err
	}

	g := SelectGallery(p, c.QueryParam("cor"), c.QueryParam("tamanho"), c.QueryParam("imagem"))
	return middleware.Render(c, http.StatusOK, ProductPage(p, g))
}

// Collection renders a collection page (GET /colecao/:slug).
func (h *Handler) Collection(c echo.Context) error {
	page, err := h.service.GetCollectionPage(c.Request().Context(), c.Param("slug"), auth.GetRecord(c).Token())
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, CollectionPageView(page))
}

// SizeGuide renders the size guide (GET /guia-de-tamanhos). HTMX requests
// get the modal fragment.
func (h *Handler) SizeGuide(c echo.Context) error {
	sg := LookupSizeGuide(c.QueryParam("tamanho"))
	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, SizeGuideFragment(sg))
	}
	return middleware.Render(c, http.StatusOK, SizeGuidePage(sg))
}
