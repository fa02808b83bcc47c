package models

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading & trailing!  ", "leading-trailing"},
		{"Café Résumé Naïve", "cafe-resume-naive"},
		{"2024: A Year in Review", "2024-a-year-in-review"},
		{"multiple---dashes___here", "multiple-dashes-here"},
		{"日本語", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("word ", 40))
	if len(got) > maxSlugLength {
		t.Fatalf("slug length %d exceeds %d", len(got), maxSlugLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug should not end with a dash: %q", got)
	}
}

func TestBaseSlug_FallsBackToTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	if got := BaseSlug("???", "article", now); got != "article-1700000000" {
		t.Errorf("BaseSlug fallback = %q", got)
	}
	if got := BaseSlug("Market Outlook", "article", now); got != "market-outlook" {
		t.Errorf("BaseSlug = %q", got)
	}
}

func TestNextFreeSlug(t *testing.T) {
	if got := NextFreeSlug("outlook", nil); got != "outlook" {
		t.Errorf("free base = %q", got)
	}
	if got := NextFreeSlug("outlook", []string{"outlook"}); got != "outlook-2" {
		t.Errorf("second = %q", got)
	}
	if got := NextFreeSlug("outlook", []string{"outlook", "outlook-2", "outlook-3"}); got != "outlook-4" {
		t.Errorf("fourth = %q", got)
	}
	// gaps are reused deterministically
	if got := NextFreeSlug("outlook", []string{"outlook", "outlook-3"}); got != "outlook-2" {
		t.Errorf("gap = %q", got)
	}
}
