package main

import (
	"strings"
	"testing"
)

func TestFillTemplate_Substitutes(t *testing.T) {
	got := fillTemplate("Hi {{name}}", map[string]string{"name": "Ann"})
	if got != "Hi Ann" {
		t.Errorf("expected %q, got %q", "Hi Ann", got)
	}
}

func TestFillTemplate_UnknownPlaceholderRendersEmpty(t *testing.T) {
	got := fillTemplate("Hi {{missing}}!", map[string]string{"name": "Ann"})
	if got != "Hi !" {
		t.Errorf("unknown placeholder should render empty, got %q", got)
	}
}

func TestFillTemplate_WhitespaceInsidePlaceholder(t *testing.T) {
	got := fillTemplate("{{ name }} / {{name}}", map[string]string{"name": "Ann"})
	if got != "Ann / Ann" {
		t.Errorf("expected %q, got %q", "Ann / Ann", got)
	}
}

func TestEscapeHTML_MinimalEntities(t *testing.T) {
	got := escapeHTML(`<b>"Tom" & Jerry</b>`)
	want := `&lt;b&gt;"Tom" &amp; Jerry&lt;/b&gt;`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeForDiscord(t *testing.T) {
	got := sanitizeForDiscord("hey @everyone run `rm -rf`")
	if strings.Contains(got, "@everyone") {
		t.Error("mentions must be neutralized")
	}
	if strings.Contains(got, "`") {
		t.Error("backticks must be softened")
	}
	if !strings.Contains(got, "@\u200beveryone") {
		t.Errorf("expected zero-width break after @, got %q", got)
	}
}

func TestClip_RuneSafe(t *testing.T) {
	if got := clip("héllo", 2); got != "hé" {
		t.Errorf("expected %q, got %q", "hé", got)
	}
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip must not pad, got %q", got)
	}
}

func TestClipWithMarker(t *testing.T) {
	got := clipWithMarker(strings.Repeat("x", 20), 10)
	if got != strings.Repeat("x", 7)+"..." {
		t.Errorf("expected truncation marker, got %q", got)
	}
	if len([]rune(got)) != 10 {
		t.Errorf("clipped body must fit the cap, got %d runes", len([]rune(got)))
	}

	if got := clipWithMarker("fits", 10); got != "fits" {
		t.Errorf("under-cap body must be untouched, got %q", got)
	}
}

func TestClipWithMarker_TinyCapSkipsMarker(t *testing.T) {
	for n := 0; n <= 3; n++ {
		got := clipWithMarker("overflow", n)
		if len([]rune(got)) > n {
			t.Errorf("cap %d: result %q exceeds the cap", n, got)
		}
		if strings.Contains(got, ".") {
			t.Errorf("cap %d: marker must be dropped when it cannot fit, got %q", n, got)
		}
	}
}
