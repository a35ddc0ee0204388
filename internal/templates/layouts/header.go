package layouts

import "strings"

// noHeaderPaths are the auth screens rendered without the site header.
var noHeaderPaths = []string{"/login", "/register", "/forgot-password"}

// HeaderMode selects how the site header is drawn for a path.
type HeaderMode int

const (
	// HeaderHidden renders no header.
	HeaderHidden HeaderMode = iota

	// HeaderStandard renders the header with a body offset below it.
	HeaderStandard

	// HeaderOverlay renders the header over the content with no offset.
	// Product pages use it so the gallery starts at the top edge.
	HeaderOverlay
)

// HeaderModeFor returns the header mode for an exact request path.
func HeaderModeFor(path string) HeaderMode {
	for _, p := range noHeaderPaths {
		if path == p {
			return HeaderHidden
		}
	}
	if strings.HasPrefix(path, "/produto") {
		return HeaderOverlay
	}
	return HeaderStandard
}

// BodyClass returns the <body> class for the mode.
func (m HeaderMode) BodyClass() string {
	if m == HeaderStandard {
		return "has-header-offset"
	}
	return ""
}
