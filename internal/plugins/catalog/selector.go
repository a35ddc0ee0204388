package catalog

// Direction is the way CycleImage moves through a gallery.
type Direction int

const (
	Next Direction = iota
	Previous
)

// DistinctColors returns one variant per color name in first-occurrence
// order. Later variants of a color already seen are dropped.
func DistinctColors(variants []ProductVariant) []ProductVariant {
	seen := make(map[string]struct{}, len(variants))
	out := make([]ProductVariant, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v.ColorName]; ok {
			continue
		}
		seen[v.ColorName] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ImagesForColor returns the images of color in source order.
func ImagesForColor(images []ProductImage, color string) []ProductImage {
	var out []ProductImage
	for _, img := range images {
		if img.ColorName == color {
			out = append(out, img)
		}
	}
	return out
}

// PrimaryOrFirst returns the primary image, else the first, else nil. An
// empty gallery is valid and shows no image.
func PrimaryOrFirst(images []ProductImage) *ProductImage {
	for i := range images {
		if images[i].IsPrimary {
			return &images[i]
		}
	}
	if len(images) > 0 {
		return &images[0]
	}
	return nil
}

// FindVariant returns the first variant matching color and size exactly.
// Nil means the combination does not exist, which is distinct from a
// variant with zero stock.
func FindVariant(variants []ProductVariant, color, size string) *ProductVariant {
	for i := range variants {
		if variants[i].ColorName == color && variants[i].Size == size {
			return &variants[i]
		}
	}
	return nil
}

// CycleImage returns the neighbor of currentID in dir, wrapping at both ends.
// A single-image gallery returns that image unchanged. An id not in images
// falls back to PrimaryOrFirst.
func CycleImage(images []ProductImage, currentID string, dir Direction) *ProductImage {
	idx := indexOfImage(images, currentID)
	if idx < 0 {
		return PrimaryOrFirst(images)
	}
	if len(images) <= 1 {
		return &images[idx]
	}

	n := len(images)
	switch dir {
	case Previous:
		idx = (idx - 1 + n) % n
	default:
		idx = (idx + 1) % n
	}
	return &images[idx]
}

func indexOfImage(images []ProductImage, id string) int {
	for i := range images {
		if images[i].ID == id {
			return i
		}
	}
	return -1
}
