package models

import (
	"time"

	"github.com/rpupo63/consultancy-site-backend/errs"
)

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusArchived   ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// Project is a piece of client work shown in the portfolio
type Project struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	Title        string        `json:"title" gorm:"type:text;not null"`
	Description  string        `json:"description" gorm:"type:text;not null;default:''"`
	Organization string        `json:"organization" gorm:"type:text;not null;default:''"`
	Category     string        `json:"category" gorm:"type:text;not null;default:'';index"`
	BgImage      *string       `json:"bg_image" gorm:"type:text"`
	Image        *string       `json:"image" gorm:"type:text"`
	Duration     string        `json:"duration" gorm:"type:text;not null;default:''"`
	Location     string        `json:"location" gorm:"type:text;not null;default:''"`
	Status       ProjectStatus `json:"status" gorm:"type:text;not null;default:'draft';index"`
	OrderIndex   int           `json:"order_index" gorm:"not null;default:0"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	UpdatedBy    *int64        `json:"updated_by"`
}

// ProjectInput is the request schema for creating or patching a project.
// ServiceIDs left out of the payload keeps the current associations; an
// empty list clears them.
type ProjectInput struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Organization *string        `json:"organization"`
	Category     *string        `json:"category"`
	BgImage      *string        `json:"bg_image"`
	Image        *string        `json:"image"`
	Duration     *string        `json:"duration"`
	Location     *string        `json:"location"`
	Status       *ProjectStatus `json:"status"`
	OrderIndex   *int           `json:"order_index"`
	ServiceIDs   []int64        `json:"service_ids"`
}

func (in ProjectInput) Validate(create bool) error {
	if in.Status != nil && !in.Status.Valid() {
		return errs.NewInvalidFieldError("status", "must be one of draft, in_progress, completed, archived")
	}
	return firstErr(
		requireText("title", in.Title, create),
		maxLength("title", in.Title, 200),
		optionalURL("bg_image", in.BgImage),
		optionalURL("image", in.Image),
		positiveIDs("service_ids", in.ServiceIDs),
	)
}

func (in ProjectInput) Apply(p *Project) {
	setText(&p.Title, in.Title)
	if in.Description != nil {
		p.Description = *in.Description
	}
	setText(&p.Organization, in.Organization)
	setText(&p.Category, in.Category)
	setNullable(&p.BgImage, in.BgImage)
	setNullable(&p.Image, in.Image)
	setText(&p.Duration, in.Duration)
	setText(&p.Location, in.Location)
	if in.Status != nil {
		p.Status = *in.Status
	}
	if p.Status == "" {
		p.Status = ProjectStatusDraft
	}
	setInt(&p.OrderIndex, in.OrderIndex)
}

// ProjectFilter narrows FindAll. Zero values match everything.
// HideDrafts is set on public listings.
type ProjectFilter struct {
	Status     ProjectStatus
	Category   string
	HideDrafts bool
}
