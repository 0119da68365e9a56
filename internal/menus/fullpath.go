package menus

import "strings"

// BuildFullPath canonicalizes a stored menu path. Absolute URLs and pure
// bookmarks pass through verbatim. Otherwise any trailing #fragment is
// split off, the remaining path is normalized to carry a leading and a
// trailing slash, the fragment is reattached and, when language-prefixed
// URLs are enabled, the language code is prepended as the first segment.
func BuildFullPath(path, language string, languagePrefix bool) string {
	if strings.HasPrefix(path, "http:") || strings.HasPrefix(path, "https:") {
		return path
	}
	if strings.HasPrefix(path, "#") {
		return path
	}

	bookmark := ""
	if pos := strings.Index(path, "#"); pos > 0 {
		bookmark = path[pos:]
		path = path[:pos]
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	path += bookmark
	if language != "" && languagePrefix {
		path = "/" + language + path
	}
	return path
}

// FullPath canonicalizes the item's own path.
func (m *MenuItem) FullPath(languagePrefix bool) string {
	return BuildFullPath(m.Path, m.Language, languagePrefix)
}
