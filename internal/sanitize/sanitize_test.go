package sanitize_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-ninecms/internal/sanitize"
)

func TestStripTags(t *testing.T) {
	got := sanitize.StripTags(`Hello <script>alert(1)</script><b>world</b>`)
	if strings.Contains(got, "<") {
		t.Fatalf("expected markup stripped, got %q", got)
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "world") {
		t.Fatalf("expected text preserved, got %q", got)
	}
}

func TestCleanKeepsEditorialTags(t *testing.T) {
	in := `<table><tr><td colspan="2">cell</td></tr></table><script>boom()</script>`
	got := sanitize.Clean(in)
	if !strings.Contains(got, "<table>") || !strings.Contains(got, `colspan="2"`) {
		t.Fatalf("expected table markup kept, got %q", got)
	}
	if strings.Contains(got, "script") {
		t.Fatalf("expected script removed, got %q", got)
	}
}

func TestCleanDropsDivWithoutFullPolicy(t *testing.T) {
	in := `<div class="x">boxed</div>`
	if got := sanitize.Clean(in); strings.Contains(got, "<div") {
		t.Fatalf("basic policy should drop div, got %q", got)
	}
	if got := sanitize.CleanFull(in); !strings.Contains(got, "<div") {
		t.Fatalf("full policy should keep div, got %q", got)
	}
}

func TestEmptyInputShortCircuits(t *testing.T) {
	if got := sanitize.Clean(""); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
