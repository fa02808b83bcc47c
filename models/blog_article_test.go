package models

import (
	"testing"
	"time"

	"github.com/rpupo63/consultancy-site-backend/errs"
)

func strPtr(s string) *string { return &s }

func TestSetStatus_StampsPublishedAtOnce(t *testing.T) {
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	a := BlogArticle{Status: ArticleStatusDraft}
	a.SetStatus(ArticleStatusPublished, first)
	if a.PublishedAt == nil || !a.PublishedAt.Equal(first) {
		t.Fatalf("PublishedAt = %v, want %v", a.PublishedAt, first)
	}

	a.SetStatus(ArticleStatusPublished, later)
	if !a.PublishedAt.Equal(first) {
		t.Errorf("re-publishing changed PublishedAt to %v", a.PublishedAt)
	}

	a.SetStatus(ArticleStatusDraft, later)
	a.SetStatus(ArticleStatusPublished, later)
	if !a.PublishedAt.Equal(first) {
		t.Errorf("unpublish/publish cycle changed PublishedAt to %v", a.PublishedAt)
	}
}

func TestSetStatus_DraftLeavesPublishedAtNil(t *testing.T) {
	var a BlogArticle
	a.SetStatus(ArticleStatusDraft, time.Now())
	if a.PublishedAt != nil {
		t.Errorf("draft should not be stamped")
	}
}

func TestBlogArticleInput_Validate(t *testing.T) {
	insights := CategoryIndustryInsights
	bogusCategory := ArticleCategory("Gossip")
	bogusStatus := ArticleStatus("scheduled")

	tests := []struct {
		name   string
		in     BlogArticleInput
		create bool
		field  string
	}{
		{"valid create", BlogArticleInput{Title: strPtr("T"), Category: &insights}, true, ""},
		{"missing title", BlogArticleInput{Category: &insights}, true, "title"},
		{"blank title", BlogArticleInput{Title: strPtr("   "), Category: &insights}, true, "title"},
		{"missing category", BlogArticleInput{Title: strPtr("T")}, true, "category"},
		{"unknown category", BlogArticleInput{Title: strPtr("T"), Category: &bogusCategory}, true, "category"},
		{"unknown status", BlogArticleInput{Status: &bogusStatus}, false, "status"},
		{"relative image", BlogArticleInput{Image: strPtr("/img.png")}, false, "image"},
		{"bad service id", BlogArticleInput{ServiceIDs: []int64{1, 0}}, false, "service_ids"},
		{"empty patch", BlogArticleInput{}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate(tt.create)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			apiErr, ok := err.(*errs.ApiErr)
			if !ok {
				t.Fatalf("expected *errs.ApiErr, got %v", err)
			}
			if apiErr.Field != tt.field {
				t.Errorf("field = %q, want %q", apiErr.Field, tt.field)
			}
		})
	}
}

func TestBlogArticleInput_Apply(t *testing.T) {
	now := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)
	published := ArticleStatusPublished
	in := BlogArticleInput{
		Title:    strPtr("  Title  "),
		Keywords: &[]string{" strategy ", "", "growth"},
		Status:   &published,
		Image:    strPtr(""),
	}

	a := BlogArticle{Image: strPtr("https://cdn.example.com/old.png")}
	in.Apply(&a, now)

	if a.Title != "Title" {
		t.Errorf("Title = %q", a.Title)
	}
	if len(a.Keywords) != 2 || a.Keywords[0] != "strategy" || a.Keywords[1] != "growth" {
		t.Errorf("Keywords = %v", a.Keywords)
	}
	if a.Image != nil {
		t.Errorf("empty image should clear the field")
	}
	if a.PublishedAt == nil || !a.PublishedAt.Equal(now) {
		t.Errorf("PublishedAt = %v", a.PublishedAt)
	}
}

func TestUniqueIDs(t *testing.T) {
	got := UniqueIDs([]int64{3, 1, 3, 2, 1})
	want := []int64{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("UniqueIDs = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UniqueIDs = %v, want %v", got, want)
		}
	}
}
