package catalog

import "slices"

// Availability is the state of the add-to-cart button.
type Availability int

const (
	// NoSuchVariant means no size is chosen or the (color, size) pair is not
	// in the catalog.
	NoSuchVariant Availability = iota
	OutOfStock
	InStock
)

// Gallery is the per-request selection state of a product page. It is
// derived from query parameters and never stored.
type Gallery struct {
	SelectedColor string
	SelectedSize  string

	Colors  []ProductVariant
	Images  []ProductImage
	Current *ProductImage

	// Variant is the exact match for (SelectedColor, SelectedSize), or nil.
	Variant *ProductVariant
}

// SelectGallery resolves the gallery for the requested color, size and
// image. An empty or unknown color selects the first variant's color. The
// image set is always recomputed for the color; imageID is honored only if
// it belongs to that set. Sizes outside the vocabulary are dropped.
func SelectGallery(p *Product, color, size, imageID string) Gallery {
	g := Gallery{Colors: DistinctColors(p.Variants)}

	if !hasColor(g.Colors, color) {
		color = ""
		if len(p.Variants) > 0 {
			color = p.Variants[0].ColorName
		}
	}
	g.SelectedColor = color

	if slices.Contains(Sizes, size) {
		g.SelectedSize = size
	}

	g.Images = ImagesForColor(p.Images, color)
	if i := indexOfImage(g.Images, imageID); i >= 0 {
		g.Current = &g.Images[i]
	} else {
		g.Current = PrimaryOrFirst(g.Images)
	}

	if g.SelectedSize != "" {
		g.Variant = FindVariant(p.Variants, g.SelectedColor, g.SelectedSize)
	}
	return g
}

// Availability classifies the selected variant.
func (g Gallery) Availability() Availability {
	switch {
	case g.Variant == nil:
		return NoSuchVariant
	case g.Variant.QuantityInStock > 0:
		return InStock
	default:
		return OutOfStock
	}
}

// Neighbors returns the previous and next image for the arrows, or nils when
// the gallery has fewer than two images.
func (g Gallery) Neighbors() (prev, next *ProductImage) {
	if len(g.Images) < 2 || g.Current == nil {
		return nil, nil
	}
	return CycleImage(g.Images, g.Current.ID, Previous), CycleImage(g.Images, g.Current.ID, Next)
}

// SizeOption is one size button.
type SizeOption struct {
	Size      string
	Available bool
	Selected  bool
}

// SizeOptions lists the vocabulary for the selected color. A size is
// available iff its variant exists with stock above zero.
func SizeOptions(p *Product, g Gallery) []SizeOption {
	out := make([]SizeOption, 0, len(Sizes))
	for _, size := range Sizes {
		v := FindVariant(p.Variants, g.SelectedColor, size)
		out = append(out, SizeOption{
			Size:      size,
			Available: v != nil && v.QuantityInStock > 0,
			Selected:  size == g.SelectedSize,
		})
	}
	return out
}

func hasColor(colors []ProductVariant, color string) bool {
	if color == "" {
		return false
	}
	for _, c := range colors {
		if c.ColorName == color {
			return true
		}
	}
	return false
}
