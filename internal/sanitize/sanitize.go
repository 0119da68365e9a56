// Package sanitize filters HTML on editorial input using bluemonday.
//
// Three policies: StripTags removes markup entirely (titles, aliases,
// highlights, form fields), Clean allows the editorial tag set
// (summaries, bodies), CleanFull additionally allows div and is gated on
// the full-HTML capability.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	strict *bluemonday.Policy
	basic  *bluemonday.Policy
	full   *bluemonday.Policy
)

func policies() {
	once.Do(func() {
		strict = bluemonday.StrictPolicy()
		basic = editorialPolicy(false)
		full = editorialPolicy(true)
	})
}

func editorialPolicy(allowDiv bool) *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements(
		"cite", "dl", "dt", "dd", "p", "u", "s", "sub", "sup", "img",
		"table", "thead", "tbody", "tr", "td", "th", "hr", "iframe",
		"h2", "h3", "h4", "h5", "h6", "span", "br",
	)

	p.AllowAttrs("href", "title", "name", "target", "class").OnElements("a")
	p.AllowAttrs("title").OnElements("abbr", "acronym")
	p.AllowAttrs("style", "class").OnElements("p", "span")
	p.AllowAttrs("src", "alt", "title", "class").OnElements("img")
	p.AllowAttrs("src", "height", "width", "class").OnElements("iframe")
	p.AllowAttrs("border", "cellpadding", "cellspacing").OnElements("table")
	p.AllowAttrs("scope", "rowspan", "colspan", "class").OnElements("th", "td")

	p.AllowStyles("margin-left", "text-align", "width", "page-break-after", "display", "float").Globally()

	if allowDiv {
		p.AllowElements("div")
		p.AllowAttrs("style", "class").OnElements("div")
	}
	return p
}

// StripTags removes all HTML, leaving text content.
func StripTags(s string) string {
	if s == "" {
		return s
	}
	policies()
	return strict.Sanitize(s)
}

// Clean keeps the editorial tag set and drops everything else.
func Clean(s string) string {
	if s == "" {
		return s
	}
	policies()
	return basic.Sanitize(s)
}

// CleanFull behaves like Clean but additionally allows div containers.
// Callers must hold the full-HTML capability before choosing this policy.
func CleanFull(s string) string {
	if s == "" {
		return s
	}
	policies()
	return full.Sanitize(s)
}
