package translit_test

import (
	"testing"

	"github.com/goliatone/go-ninecms/internal/translit"
)

func TestPathSegment(t *testing.T) {
	tables := translit.DefaultTables()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii title", "Test Aliases Node", "test-aliases-node"},
		{"punctuation removed", "What's up? (really)", "whats-up-really"},
		{"dots and slashes", "v1.2/final_cut", "v1-2-final-cut"},
		{"greek", "Καλημέρα", "kalimera"},
		{"greek digraphs", "Θάλασσα ψυχή", "thalassa-psychi"},
		{"russian", "Москва", "moskva"},
		{"cyrillic shcha, russian table wins", "щастие", "schastie"},
		{"serbian latin", "Đorđe Šić", "djordje-shic"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translit.PathSegment(tc.input, tables); got != tc.want {
				t.Fatalf("PathSegment(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestTransliterateKeepsCase(t *testing.T) {
	got := translit.Transliterate("Αθήνα Rocks", translit.DefaultTables())
	if got != "Athina-Rocks" {
		t.Fatalf("expected Athina-Rocks, got %q", got)
	}
}

func TestFilename(t *testing.T) {
	got := translit.Filename(`my file: v2?.jpg`, translit.DefaultTables())
	if got != "my_file_v2.jpg" {
		t.Fatalf("expected my_file_v2.jpg, got %q", got)
	}
}

func TestZeroTablesMapCharactersOnly(t *testing.T) {
	got := translit.Transliterate("Όχι big deal", translit.Tables{})
	if got != "Ochi big deal" {
		t.Fatalf("expected character mapping only, got %q", got)
	}
}
