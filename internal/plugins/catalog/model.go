// Package catalog renders product and collection pages from the backend's
// public read endpoints. It owns the variant selection rules: which colors a
// product offers, which images belong to a color, and which variant a
// (color, size) choice resolves to.
package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sizes is the size vocabulary offered on product pages, in display order.
var Sizes = []string{"PP", "P", "M", "G", "GG"}

// ProductVariant is one purchasable (color, size) combination. Pairs are not
// guaranteed unique; the first match wins.
type ProductVariant struct {
	ID              string `json:"id"`
	SKU             string `json:"sku"`
	Size            string `json:"size"`
	ColorName       string `json:"colorName"`
	ColorHex        string `json:"colorHex"`
	QuantityInStock int    `json:"quantityInStock"`
}

// ProductImage is a gallery image tied to one color.
type ProductImage struct {
	ID        string  `json:"id"`
	ImageURL  string  `json:"imageUrl"`
	AltText   *string `json:"altText"`
	IsPrimary bool    `json:"isPrimary"`
	ColorName string  `json:"colorName"`
}

// Alt returns the alt text, falling back to fallback when none is set.
func (img ProductImage) Alt(fallback string) string {
	if img.AltText != nil && *img.AltText != "" {
		return *img.AltText
	}
	return fallback
}

// Product mirrors the backend's product representation.
type Product struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	Price            decimal.Decimal     `json:"price"`
	PromotionalPrice decimal.NullDecimal `json:"promotionalPrice"`
	SKU              string              `json:"sku"`
	Category         string              `json:"category"`
	IsActive         bool                `json:"isActive"`
	Materials        []string            `json:"materials"`
	CareInstructions []string            `json:"careInstructions"`
	Variants         []ProductVariant    `json:"variants"`
	Images           []ProductImage      `json:"images"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	Version          int                 `json:"version"`
}

// OnSale reports whether a promotional price exists and is below the price.
func (p *Product) OnSale() bool {
	return p.PromotionalPrice.Valid && p.PromotionalPrice.Decimal.LessThan(p.Price)
}

// Collection mirrors the backend's collection representation.
type Collection struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// CollectionPage is the data behind /colecao/:slug.
type CollectionPage struct {
	Collection *Collection
	Products   []Product
}

// FormatBRL renders an amount as "R$ 129,90".
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}
