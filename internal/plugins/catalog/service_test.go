package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"golang.org/x/oauth2"

	"github.com/tsmatelier/storefront/internal/apperror"
	"github.com/tsmatelier/storefront/internal/backend"
)

// fakeFetcher serves canned JSON bodies by path prefix.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	tokens []*oauth2.Token
}

func (f *fakeFetcher) GetJSON(_ context.Context, path string, token *oauth2.Token, v any) error {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()

	for prefix, err := range f.errs {
		if strings.HasPrefix(path, prefix) {
			return err
		}
	}
	for prefix, body := range f.bodies {
		if strings.HasPrefix(path, prefix) {
			return json.Unmarshal([]byte(body), v)
		}
	}
	return &backend.HTTPFailure{StatusCode: http.StatusNotFound, Message: "not found"}
}

func assertAppCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected status %d, got %d", code, appErr.Code)
	}
}

const productJSON = `{
	"id": "p1",
	"name": "Vestido Celeste",
	"sku": "VC-01",
	"price": 329.9,
	"promotionalPrice": null,
	"variants": [{"sku": "VC-01-AZ-P", "size": "P", "colorName": "Azul", "colorHex": "#1e3a8a", "quantityInStock": 2}],
	"images": [{"id": "az1", "imageUrl": "https://cdn.example.com/az1.jpg", "isPrimary": true, "colorName": "Azul"}]
}`

func TestGetProduct_Decodes(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{"/products/VC-01": productJSON}}
	svc := NewCatalogService(f)

	tok := &oauth2.Token{AccessToken: "t"}
	p, err := svc.GetProduct(context.Background(), "VC-01", tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Vestido Celeste" || FormatBRL(p.Price) != "R$ 329,90" {
		t.Errorf("unexpected product %+v", p)
	}
	if p.PromotionalPrice.Valid {
		t.Error("null promotional price should decode as invalid")
	}
	if len(p.Variants) != 1 || len(p.Images) != 1 {
		t.Errorf("expected one variant and one image, got %d/%d", len(p.Variants), len(p.Images))
	}
	if f.tokens[0] != tok {
		t.Error("expected visitor token to be forwarded")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := NewCatalogService(&fakeFetcher{})

	_, err := svc.GetProduct(context.Background(), "missing", nil)
	assertAppCode(t, err, http.StatusNotFound)
}

func TestGetProduct_BackendDown(t *testing.T) {
	f := &fakeFetcher{errs: map[string]error{"/products/": backend.ErrUnreachable}}
	svc := NewCatalogService(f)

	_, err := svc.GetProduct(context.Background(), "VC-01", nil)
	assertAppCode(t, err, http.StatusBadGateway)
	if !errors.Is(err, backend.ErrUnreachable) {
		t.Error("expected cause to be preserved for logging")
	}
}

func TestGetCollectionPage(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		"/collections/verao": `{"id": "c1", "name": "Verão", "slug": "verao"}`,
		"/products?":         "[" + productJSON + "]",
	}}
	svc := NewCatalogService(f)

	page, err := svc.GetCollectionPage(context.Background(), "verao", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Collection.Name != "Verão" || page.Collection.Description != nil {
		t.Errorf("unexpected collection %+v", page.Collection)
	}
	if len(page.Products) != 1 {
		t.Errorf("expected one product, got %d", len(page.Products))
	}
}

func TestGetCollectionPage_ProductListFailureDegrades(t *testing.T) {
	f := &fakeFetcher{
		bodies: map[string]string{"/collections/verao": `{"id": "c1", "name": "Verão", "slug": "verao"}`},
		errs:   map[string]error{"/products?": &backend.HTTPFailure{StatusCode: http.StatusInternalServerError}},
	}
	svc := NewCatalogService(f)

	page, err := svc.GetCollectionPage(context.Background(), "verao", nil)
	if err != nil {
		t.Fatalf("product list failure must not fail the page: %v", err)
	}
	if page.Products == nil || len(page.Products) != 0 {
		t.Errorf("expected empty product list, got %+v", page.Products)
	}
}

func TestGetCollectionPage_MissingCollection(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{"/products?": "[]"}}
	svc := NewCatalogService(f)

	_, err := svc.GetCollectionPage(context.Background(), "nope", nil)
	assertAppCode(t, err, http.StatusNotFound)
}

func TestGetCollectionPage_CollectionServerError(t *testing.T) {
	f := &fakeFetcher{
		bodies: map[string]string{"/products?": "[]"},
		errs:   map[string]error{"/collections/verao": &backend.HTTPFailure{StatusCode: http.StatusInternalServerError}},
	}
	svc := NewCatalogService(f)

	_, err := svc.GetCollectionPage(context.Background(), "verao", nil)
	assertAppCode(t, err, http.StatusBadGateway)
}
