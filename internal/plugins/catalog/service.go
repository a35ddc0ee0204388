package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/tsmatelier/storefront/internal/apperror"
	"github.com/tsmatelier/storefront/internal/backend"
)

// Fetcher is the part of the backend client the catalog needs.
type Fetcher interface {
	GetJSON(ctx context.Context, path string, token *oauth2.Token, v any) error
}

// CatalogService reads products and collections from the backend. The token
// is the visitor's, or nil; these endpoints do not require one.
type CatalogService interface {
	GetProduct(ctx context.Context, sku string, token *oauth2.Token) (*Product, error)
	GetCollectionPage(ctx context.Context, slug string, token *oauth2.Token) (*CollectionPage, error)
}

type catalogService struct {
	api Fetcher
}

// NewCatalogService creates a catalog service over api.
func NewCatalogService(api Fetcher) CatalogService {
	return &catalogService{api: api}
}

// GetProduct fetches one product by SKU. A backend 404 becomes NotFound.
func (s *catalogService) GetProduct(ctx context.Context, sku string, token *oauth2.Token) (*Product, error) {
	var p Product
	if err := s.api.GetJSON(ctx, "/products/"+url.PathEscape(sku), token, &p); err != nil {
		return nil, readError("product", err)
	}
	return &p, nil
}

// GetCollectionPage fetches collection metadata and its products in
// parallel. Metadata is required; the product list is best-effort and
// degrades to empty on failure.
func (s *catalogService) GetCollectionPage(ctx context.Context, slug string, token *oauth2.Token) (*CollectionPage, error) {
	var (
		collection Collection
		products   []Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.api.GetJSON(gctx, "/collections/"+url.PathEscape(slug), token, &collection); err != nil {
			return readError("collection", err)
		}
		return nil
	})
	g.Go(func() error {
		q := url.Values{"collection": {slug}}
		if err := s.api.GetJSON(gctx, "/products?"+q.Encode(), token, &products); err != nil {
			slog.Warn("collection product list unavailable",
				slog.String("slug", slug),
				slog.Any("error", err),
			)
			products = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if products == nil {
		products = []Product{}
	}
	return &CollectionPage{Collection: &collection, Products: products}, nil
}

// readError maps a backend read failure onto an AppError.
func readError(what string, err error) error {
	if backend.IsNotFound(err) {
		return apperror.NewNotFound(what + " not found")
	}
	return apperror.NewBadGateway(fmt.Sprintf("failed to load %s", what), err)
}
