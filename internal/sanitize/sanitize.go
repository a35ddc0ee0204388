// Package sanitize provides HTML sanitization for product copy returned by
// the REST API. Descriptions are authored in the back office and may carry
// formatting markup, so they are rendered as HTML only after bluemonday has
// stripped scripts, event handlers and javascript: URLs.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for product copy.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Allow class attributes for the back-office editor's alignment classes.
		policy.AllowAttrs("class").Globally()

		// Allow simple tables used for measurement charts in descriptions.
		policy.AllowElements("table", "thead", "tbody", "tr", "td", "th")
		policy.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	})
	return policy
}

// HTML sanitizes product copy, preserving safe formatting tags.
// The output is safe to render with templ.Raw.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	return getPolicy().Sanitize(input)
}

// Text strips all markup, for places that must show plain text such as
// image alt attributes and meta descriptions.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return bluemonday.StrictPolicy().Sanitize(input)
}
