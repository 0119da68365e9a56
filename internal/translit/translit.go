// Package translit converts free text into ASCII-safe path segments.
//
// Single-character tables cover Greek, Serbian, Russian and Bulgarian in
// priority order; multi-character expansions (θ→th, ж→zh, …) run afterwards.
// Punctuation handling is table-driven so hosts can tune which characters
// are replaced with hyphens and which are dropped outright.
package translit

import "strings"

// Tables carries the punctuation behaviour applied after character mapping.
// Replace maps ReplaceFrom[i] to ReplaceTo[i]; Remove lists characters that
// are dropped. The zero value performs character mapping only.
type Tables struct {
	Remove      string
	ReplaceFrom string
	ReplaceTo   string
}

// DefaultTables mirrors the original 9cms settings.
func DefaultTables() Tables {
	return Tables{
		Remove:      `"'` + "`" + `,:;|{[}]+=*&%^$#@!~()?<>`,
		ReplaceFrom: ` .-_/`,
		ReplaceTo:   `-----`,
	}
}

var charTables = []struct{ from, to string }{
	// Greek
	{
		"αβγδεζηικλμνξοπρστυφωΑΒΓΔΕΖΗΙΚΛΜΝΞΟΠΡΣΤΥΦΩάέίήύόώϊϋΐΰςΆΈΊΉΎΌΏ",
		"abgdeziiklmnxoprstyfoABGDEZIIKLMNXOPRSTYFOaeiiyooiyiysAEIIYOO",
	},
	// Serbian (cyrillic)
	{
		"абвгдезијклмнопрстуфхцАБВГДЕЗИЈКЛМНОПРСТУФХЦ",
		"abvgdezijklmnoprstufhcABVGDEZIJKLMNOPRSTUFHC",
	},
	// Russian
	{
		"абвгдезийклмнопрстуфхъыьАБВГДЕЗИЙКЛМНОПРСТУФХЪЫЬ",
		"abvgdezijklmnoprstufh_y_ABVGDEZIJKLMNOPRSTUFH_Y_",
	},
	// Bulgarian
	{
		"абвгдезийклмнопрстуфхАБВГДЕЗИЙКЛМНОПРСТУФХ",
		"abvgdeziyklmnoprstufhABVGDEZIYKLMNOPRSTUFH",
	},
}

var extTables = []struct {
	from []string
	to   []string
}{
	// Greek digraphs
	{
		[]string{"θ", "χ", "ψ", "Θ", "Χ", "Ψ"},
		[]string{"th", "ch", "ps", "Th", "Ch", "Ps"},
	},
	// Serbian (cyrillic)
	{
		[]string{"ђ", "ж", "љ", "њ", "ћ", "ч", "џ", "ш", "Ђ", "Ж", "Љ", "Њ", "Ћ", "Ч", "Џ", "Ш"},
		[]string{"dj", "zh", "lj", "nj", "c", "ch", "dz", "sh", "Dj", "Zh", "Lj", "Nj", "C", "Ch", "Dz", "Sh"},
	},
	// Serbian (latin)
	{
		[]string{"đ", "ž", "ć", "č", "š", "Đ", "Ž", "Ć", "Č", "Š"},
		[]string{"dj", "zh", "c", "ch", "sh", "Dj", "Zh", "C", "Ch", "Sh"},
	},
	// Russian
	{
		[]string{"ж", "ц", "ч", "ш", "щ", "ю", "я", "Ж", "Ц", "Ч", "Ш", "Щ", "Ю", "Я"},
		[]string{"zh", "ts", "ch", "sh", "sch", "ju", "ja", "Zh", "Ts", "Ch", "Sh", "Sch", "Ju", "Ja"},
	},
	// Bulgarian
	{
		[]string{"ж", "ц", "ч", "ш", "щ", "ю", "я", "Ж", "Ц", "Ч", "Ш", "Щ", "Ю", "Я"},
		[]string{"zh", "ts", "ch", "sh", "sht", "yu", "ya", "Zh", "Ts", "Ch", "Sh", "Sht", "Yu", "Ya"},
	},
}

// Transliterate maps non-ASCII characters to ASCII and applies the
// replace/remove tables.
func Transliterate(s string, tables Tables) string {
	s = mapCharacters(s)
	s = applyReplace(s, tables.ReplaceFrom, tables.ReplaceTo)
	s = applyRemove(s, tables.Remove)
	return s
}

// Filename transliterates for use as a stored file name: spaces become
// underscores and path-hostile characters are removed instead of replaced.
func Filename(s string, tables Tables) string {
	s = mapCharacters(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = applyRemove(s, tables.Remove+`/\?%*:|"<>`)
	return s
}

// PathSegment produces the lowercase hyphen-joined form used when a node
// title substitutes into a URL alias pattern.
func PathSegment(s string, tables Tables) string {
	return strings.ToLower(Transliterate(s, tables))
}

func mapCharacters(s string) string {
	for _, table := range charTables {
		s = translate(s, table.from, table.to)
	}
	for _, table := range extTables {
		for i, from := range table.from {
			s = strings.ReplaceAll(s, from, table.to[i])
		}
	}
	return s
}

// translate maps the i-th rune of from to the i-th rune of to. Both tables
// here are rune-aligned even though the source is multi-byte.
func translate(s, from, to string) string {
	fromRunes := []rune(from)
	toRunes := []rune(to)
	mapping := make(map[rune]rune, len(fromRunes))
	for i, r := range fromRunes {
		if i < len(toRunes) {
			mapping[r] = toRunes[i]
		}
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if mapped, ok := mapping[r]; ok {
			b.WriteRune(mapped)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func applyReplace(s, from, to string) string {
	fromRunes := []rune(from)
	toRunes := []rune(to)
	for i, r := range fromRunes {
		if i >= len(toRunes) {
			break
		}
		s = strings.ReplaceAll(s, string(r), string(toRunes[i]))
	}
	return s
}

func applyRemove(s, remove string) string {
	if remove == "" {
		return s
	}
	drop := make(map[rune]struct{}, len(remove))
	for _, r := range remove {
		drop[r] = struct{}{}
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := drop[r]; ok {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
