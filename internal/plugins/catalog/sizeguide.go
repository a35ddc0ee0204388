package catalog

// Measurements are the body measurements for one size-guide size.
type Measurements struct {
	Bust  string
	Waist string
	Hip   string
}

// sizeGuideOrder is the size-guide vocabulary. It differs from Sizes: the
// guide covers EP (extra small) and stops at G.
var sizeGuideOrder = []string{"EP", "P", "M", "G"}

var sizeGuide = map[string]Measurements{
	"EP": {Bust: "82 cm", Waist: "62 cm", Hip: "90 cm"},
	"P":  {Bust: "86 cm", Waist: "66 cm", Hip: "94 cm"},
	"M":  {Bust: "92 cm", Waist: "72 cm", Hip: "100 cm"},
	"G":  {Bust: "98 cm", Waist: "78 cm", Hip: "106 cm"},
}

// defaultGuideSize is shown when no or an unknown size is requested.
const defaultGuideSize = "P"

// SizeGuide is the selected size with its measurements.
type SizeGuide struct {
	Sizes    []string
	Selected string
	Measurements
}

// LookupSizeGuide returns the guide for size, defaulting to P.
func LookupSizeGuide(size string) SizeGuide {
	m, ok := sizeGuide[size]
	if !ok {
		size = defaultGuideSize
		m = sizeGuide[size]
	}
	return SizeGuide{Sizes: sizeGuideOrder, Selected: size, Measurements: m}
}
