package render

import (
	"strings"

	"github.com/goliatone/go-ninecms/pkg/interfaces"
)

// Suggestions builds the template lookup chain, most specific first:
//
//	{base}_{region}_{specific}
//	{base}_{specific}
//	{base}_{region}
//	{base}
//
// Spaces in region and specific are normalized to underscores. Empty
// parts drop their rungs, so a bare base yields a single suggestion.
func Suggestions(base, region, specific string) []string {
	region = normalizeTemplatePart(region)
	specific = normalizeTemplatePart(specific)

	var out []string
	if region != "" && specific != "" {
		out = append(out, base+"_"+region+"_"+specific)
	}
	if specific != "" {
		out = append(out, base+"_"+specific)
	}
	if region != "" {
		out = append(out, base+"_"+region)
	}
	return append(out, base)
}

// resolveTemplate renders the first existing suggestion. The chain is
// expected to bottom out at an always-present base template; when even
// that is missing the error is fatal.
func resolveTemplate(renderer interfaces.TemplateRenderer, suggestions []string, data any) (string, error) {
	for _, name := range suggestions {
		if renderer.Exists(name) {
			return renderer.Render(name, data)
		}
	}
	return "", &MissingTemplateError{Suggestions: suggestions}
}

func normalizeTemplatePart(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.ReplaceAll(s, " ", "_")
}
