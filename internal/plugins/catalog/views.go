package catalog

import (
	"html/template"
	"net/url"

	"github.com/a-h/templ"

	"github.com/tsmatelier/storefront/internal/sanitize"
	"github.com/tsmatelier/storefront/internal/templates/layouts"
)

// --- View models ---

type priceView struct {
	Regular string
	Promo   string
	OnSale  bool
}

func newPriceView(p *Product) priceView {
	pv := priceView{Regular: FormatBRL(p.Price), OnSale: p.OnSale()}
	if pv.OnSale {
		pv.Promo = FormatBRL(p.PromotionalPrice.Decimal)
	}
	return pv
}

type colorLink struct {
	Name     string
	Hex      string
	URL      string
	Selected bool
}

type sizeLink struct {
	SizeOption
	URL string
}

type thumbnail struct {
	URL    string
	Src    string
	Alt    string
	Active bool
}

type imageView struct {
	URL string
	Src string
	Alt string
}

type productView struct {
	Name        string
	Description template.HTML
	Materials   []string
	Care        []string
	Price       priceView
	Label       string

	Colors     []colorLink
	Sizes      []sizeLink
	Thumbnails []thumbnail
	Current    *imageView
	Prev, Next *imageView

	CartEnabled bool
	CartLabel   string
	CartSKU     string
}

type cardView struct {
	URL        string
	Name       string
	ImageSrc   string
	ImageAlt   string
	FirstColor *ProductVariant
	MoreColors int
	Price      priceView
}

type collectionView struct {
	Name        string
	Description string
	Cards       []cardView
}

// productURL builds /produto/:sku with the given selection. Empty values are
// omitted.
func productURL(sku, color, size, image string) string {
	q := url.Values{}
	if color != "" {
		q.Set("cor", color)
	}
	if size != "" {
		q.Set("tamanho", size)
	}
	if image != "" {
		q.Set("imagem", image)
	}
	u := "/produto/" + url.PathEscape(sku)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func newProductView(p *Product, g Gallery) productView {
	imageLink := func(img *ProductImage) *imageView {
		if img == nil {
			return nil
		}
		return &imageView{
			URL: productURL(p.SKU, g.SelectedColor, g.SelectedSize, img.ID),
			Src: img.ImageURL,
			Alt: img.Alt(p.Name),
		}
	}

	v := productView{
		Name:        p.Name,
		Description: template.HTML(sanitize.HTML(p.Description)),
		Materials:   p.Materials,
		Care:        p.CareInstructions,
		Price:       newPriceView(p),
		Current:     imageLink(g.Current),
	}

	sku := p.SKU
	if g.Variant != nil {
		sku = g.Variant.SKU
	}
	v.Label = g.SelectedColor + " | " + sku

	// Changing color resets size and image.
	for _, c := range g.Colors {
		v.Colors = append(v.Colors, colorLink{
			Name:     c.ColorName,
			Hex:      c.ColorHex,
			URL:      productURL(p.SKU, c.ColorName, "", ""),
			Selected: c.ColorName == g.SelectedColor,
		})
	}

	currentID := ""
	if g.Current != nil {
		currentID = g.Current.ID
	}
	for _, opt := range SizeOptions(p, g) {
		v.Sizes = append(v.Sizes, sizeLink{
			SizeOption: opt,
			URL:        productURL(p.SKU, g.SelectedColor, opt.Size, currentID),
		})
	}

	for i := range g.Images {
		img := &g.Images[i]
		v.Thumbnails = append(v.Thumbnails, thumbnail{
			URL:    productURL(p.SKU, g.SelectedColor, g.SelectedSize, img.ID),
			Src:    img.ImageURL,
			Alt:    img.Alt(p.Name),
			Active: img.ID == currentID,
		})
	}

	prev, next := g.Neighbors()
	v.Prev, v.Next = imageLink(prev), imageLink(next)

	switch g.Availability() {
	case InStock:
		v.CartEnabled = true
		v.CartLabel = "ADICIONAR"
		v.CartSKU = g.Variant.SKU
	case OutOfStock:
		v.CartLabel = "Esgotado"
	default:
		v.CartLabel = "SELECIONE UM TAMANHO"
	}

	return v
}

func newCardView(p *Product) cardView {
	c := cardView{
		URL:   productURL(p.SKU, "", "", ""),
		Name:  p.Name,
		Price: newPriceView(p),
	}
	if img := PrimaryOrFirst(p.Images); img != nil {
		c.ImageSrc = img.ImageURL
		c.ImageAlt = img.Alt(p.Name)
	}
	// The swatch only shows when there is a choice of color.
	if colors := DistinctColors(p.Variants); len(colors) > 1 {
		c.FirstColor = &colors[0]
		c.MoreColors = len(colors) - 1
	}
	return c
}

func newCollectionView(page *CollectionPage) collectionView {
	v := collectionView{Name: page.Collection.Name}
	if page.Collection.Description != nil {
		v.Description = *page.Collection.Description
	}
	for i := range page.Products {
		v.Cards = append(v.Cards, newCardView(&page.Products[i]))
	}
	return v
}

// --- Templates ---

var viewsTmpl = template.Must(template.New("catalog").Parse(`
{{define "price"}}
{{if .OnSale}}
<div class="price"><span class="price__original">{{.Regular}}</span> <span class="price__promo">{{.Promo}}</span></div>
{{else}}
<p class="price">{{.Regular}}</p>
{{end}}
{{end}}

{{define "product"}}
<div class="product">
  <div class="product__gallery">
    <ul class="product__thumbs">
      {{range .Thumbnails}}
      <li class="{{if .Active}}thumb thumb--active{{else}}thumb{{end}}"><a href="{{.URL}}"><img src="{{.Src}}" alt="{{.Alt}}"></a></li>
      {{end}}
    </ul>
    <div class="product__main-image">
      {{with .Current}}<img src="{{.Src}}" alt="{{.Alt}}">{{end}}
      {{with .Prev}}<a class="nav-arrow nav-arrow--prev" href="{{.URL}}" aria-label="Imagem anterior">&lsaquo;</a>{{end}}
      {{with .Next}}<a class="nav-arrow nav-arrow--next" href="{{.URL}}" aria-label="Próxima imagem">&rsaquo;</a>{{end}}
    </div>
  </div>
  <div class="product__details">
    <h1>{{.Name}}</h1>
    {{template "price" .Price}}
    <hr>
    <p class="selector__label">{{.Label}}</p>
    <div class="swatches">
      {{range .Colors}}
      <a href="{{.URL}}" class="{{if .Selected}}swatch swatch--selected{{else}}swatch{{end}}" style="background-color: {{.Hex}}" title="{{.Name}}"></a>
      {{end}}
    </div>
    <div class="sizes">
      {{range .Sizes}}
      {{if .Available}}<a href="{{.URL}}" class="{{if .Selected}}size size--selected{{else}}size{{end}}">{{.Size}}</a>{{else}}<span class="size size--disabled" aria-disabled="true">{{.Size}}</span>{{end}}
      {{end}}
      <a href="/guia-de-tamanhos" hx-get="/guia-de-tamanhos" hx-target="#modal" hx-swap="innerHTML" class="size-guide-link">Guia de tamanhos</a>
    </div>
    <button type="button" class="button button--cart" {{if not .CartEnabled}}disabled{{end}} data-sku="{{.CartSKU}}">{{.CartLabel}}</button>
    <div class="product__description">{{.Description}}</div>
    {{if .Materials}}<h2>Materiais</h2><ul>{{range .Materials}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{if .Care}}<h2>Cuidados</h2><ul>{{range .Care}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
</div>
{{end}}

{{define "card"}}
<a href="{{.URL}}" class="card">
  <div class="card__image">{{if .ImageSrc}}<img src="{{.ImageSrc}}" alt="{{.ImageAlt}}" width="400" height="500">{{end}}</div>
  <div class="card__details">
    <h3>{{.Name}}</h3>
    {{with .FirstColor}}
    <div class="card__colors">
      <span class="swatch" style="background-color: {{.ColorHex}}" title="{{.ColorName}}"></span>
      {{if gt $.MoreColors 0}}<span class="card__more">+{{$.MoreColors}}</span>{{end}}
    </div>
    {{end}}
  </div>
  {{template "price" .Price}}
</a>
{{end}}

{{define "collection"}}
<section class="collection">
  <h1>{{.Name}}</h1>
  {{if .Description}}<p class="collection__description">{{.Description}}</p>{{end}}
  {{if .Cards}}
  <div class="product-grid">{{range .Cards}}{{template "card" .}}{{end}}</div>
  {{else}}
  <p class="collection__empty">Nenhum produto encontrado nesta coleção no momento.</p>
  {{end}}
</section>
{{end}}

{{define "size-guide"}}
<div class="size-guide" id="size-guide">
  <h2>Guia de Tamanhos</h2>
  <div class="size-guide__figure">
    <img src="/static/images/size-guide.png" alt="Guia de medidas" width="400" height="500">
    <span class="measure measure--bust">{{.Bust}}</span>
    <span class="measure measure--waist">{{.Waist}}</span>
    <span class="measure measure--hip">{{.Hip}}</span>
  </div>
  <div class="size-guide__selector">
    {{range .Sizes}}
    <a href="/guia-de-tamanhos?tamanho={{.}}" hx-get="/guia-de-tamanhos?tamanho={{.}}" hx-target="#size-guide" hx-swap="outerHTML" class="{{if eq . $.Selected}}size size--selected{{else}}size{{end}}">{{.}}</a>
    {{end}}
  </div>
</div>
{{end}}
`))

// ProductPage renders /produto/:sku.
func ProductPage(p *Product, g Gallery) templ.Component {
	return layouts.Page(p.Name, viewsTmpl.Lookup("product"), newProductView(p, g))
}

// CollectionPageView renders /colecao/:slug.
func CollectionPageView(page *CollectionPage) templ.Component {
	return layouts.Page(page.Collection.Name, viewsTmpl.Lookup("collection"), newCollectionView(page))
}

// SizeGuideFragment renders the size guide for the modal.
func SizeGuideFragment(sg SizeGuide) templ.Component {
	return templ.FromGoHTML(viewsTmpl.Lookup("size-guide"), sg)
}

// SizeGuidePage renders the size guide as a standalone page.
func SizeGuidePage(sg SizeGuide) templ.Component {
	return layouts.Page("Guia de Tamanhos", viewsTmpl.Lookup("size-guide"), sg)
}
