package models

import (
	"strings"
	"time"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"gorm.io/datatypes"
)

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

func (s ArticleStatus) Valid() bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished
}

type ArticleCategory string

const (
	CategoryIndustryInsights ArticleCategory = "Industry Insights"
	CategoryCaseStudies      ArticleCategory = "Case Studies"
	CategoryCompanyNews      ArticleCategory = "Company News"
	CategoryCareers          ArticleCategory = "Careers"
)

func (c ArticleCategory) Valid() bool {
	switch c {
	case CategoryIndustryInsights, CategoryCaseStudies, CategoryCompanyNews, CategoryCareers:
		return true
	}
	return false
}

// BlogArticle is a news/insights post. PublishedAt is stamped the first time
// the article is published and kept from then on.
type BlogArticle struct {
	ID              int64                      `json:"id" gorm:"primaryKey"`
	Title           string                     `json:"title" gorm:"type:text;not null"`
	Excerpt         string                     `json:"excerpt" gorm:"type:text;not null;default:''"`
	Content         string                     `json:"content" gorm:"type:text;not null;default:''"`
	Category        ArticleCategory            `json:"category" gorm:"type:text;not null;index"`
	Image           *string                    `json:"image" gorm:"type:text"`
	Status          ArticleStatus              `json:"status" gorm:"type:text;not null;default:'draft';index"`
	Slug            string                     `json:"slug" gorm:"type:text;not null;uniqueIndex:idx_blog_articles_slug"`
	MetaDescription string                     `json:"meta_description" gorm:"type:text;not null;default:''"`
	Keywords        datatypes.JSONSlice[string] `json:"keywords"`
	AuthorName      string                     `json:"author_name" gorm:"type:text;not null;default:''"`
	AuthorTitle     string                     `json:"author_title" gorm:"type:text;not null;default:''"`
	AuthorImage     *string                    `json:"author_image" gorm:"type:text"`
	PublishedAt     *time.Time                 `json:"published_at"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
	UpdatedBy       *int64                     `json:"updated_by"`
}

// SetStatus changes the status and stamps PublishedAt on the first publish.
func (a *BlogArticle) SetStatus(status ArticleStatus, now time.Time) {
	a.Status = status
	if status == ArticleStatusPublished && a.PublishedAt == nil {
		t := now.UTC()
		a.PublishedAt = &t
	}
}

type BlogArticleInput struct {
	Title           *string          `json:"title"`
	Excerpt         *string          `json:"excerpt"`
	Content         *string          `json:"content"`
	Category        *ArticleCategory `json:"category"`
	Image           *string          `json:"image"`
	Status          *ArticleStatus   `json:"status"`
	Slug            *string          `json:"slug"`
	MetaDescription *string          `json:"meta_description"`
	Keywords        *[]string        `json:"keywords"`
	AuthorName      *string          `json:"author_name"`
	AuthorTitle     *string          `json:"author_title"`
	AuthorImage     *string          `json:"author_image"`
	ServiceIDs      []int64          `json:"service_ids"`
	ProjectIDs      []int64          `json:"project_ids"`
}

func (in BlogArticleInput) Validate(create bool) error {
	if create && in.Category == nil {
		return errs.NewMissingRequiredFieldError("category")
	}
	if in.Category != nil && !in.Category.Valid() {
		return errs.NewInvalidFieldError("category", "must be one of Industry Insights, Case Studies, Company News, Careers")
	}
	if in.Status != nil && !in.Status.Valid() {
		return errs.NewInvalidFieldError("status", "must be draft or published")
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" && Slugify(*in.Slug) == "" {
		return errs.NewInvalidFieldError("slug", "must contain letters or digits")
	}
	return firstErr(
		requireText("title", in.Title, create),
		maxLength("title", in.Title, 200),
		maxLength("meta_description", in.MetaDescription, 320),
		optionalURL("image", in.Image),
		optionalURL("author_image", in.AuthorImage),
		positiveIDs("service_ids", in.ServiceIDs),
		positiveIDs("project_ids", in.ProjectIDs),
	)
}

// Apply copies the provided fields onto a. Slug is handled by the caller
// since it needs a uniqueness lookup.
func (in BlogArticleInput) Apply(a *BlogArticle, now time.Time) {
	setText(&a.Title, in.Title)
	setText(&a.Excerpt, in.Excerpt)
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.Category != nil {
		a.Category = *in.Category
	}
	setNullable(&a.Image, in.Image)
	setText(&a.MetaDescription, in.MetaDescription)
	if in.Keywords != nil {
		a.Keywords = StringList(*in.Keywords)
	}
	if a.Keywords == nil {
		a.Keywords = StringList(nil)
	}
	setText(&a.AuthorName, in.AuthorName)
	setText(&a.AuthorTitle, in.AuthorTitle)
	setNullable(&a.AuthorImage, in.AuthorImage)

	status := a.Status
	if in.Status != nil {
		status = *in.Status
	}
	if status == "" {
		status = ArticleStatusDraft
	}
	a.SetStatus(status, now)
}

// BlogArticleFilter narrows FindAll. Zero values match everything.
type BlogArticleFilter struct {
	Status    ArticleStatus
	Category  ArticleCategory
	ServiceID int64
}
