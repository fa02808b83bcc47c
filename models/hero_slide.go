package models

import "time"

type HeroSlide struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"type:text;not null"`
	Subtitle        string    `json:"subtitle" gorm:"type:text;not null;default:''"`
	BackgroundImage *string   `json:"background_image" gorm:"type:text"`
	VideoBackground *string   `json:"video_background" gorm:"type:text"`
	CTAText         string    `json:"cta_text" gorm:"column:cta_text;type:text;not null;default:''"`
	CTALink         string    `json:"cta_link" gorm:"column:cta_link;type:text;not null;default:''"`
	OrderIndex      int       `json:"order_index" gorm:"not null;default:0"`
	IsActive        bool      `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type HeroSlideInput struct {
	Title           *string `json:"title"`
	Subtitle        *string `json:"subtitle"`
	BackgroundImage *string `json:"background_image"`
	VideoBackground *string `json:"video_background"`
	CTAText         *string `json:"cta_text"`
	CTALink         *string `json:"cta_link"`
	OrderIndex      *int    `json:"order_index"`
	IsActive        *bool   `json:"is_active"`
}

func (in HeroSlideInput) Validate(create bool) error {
	return firstErr(
		requireText("title", in.Title, create),
		optionalURL("background_image", in.BackgroundImage),
		optionalURL("video_background", in.VideoBackground),
	)
}

// NewHeroSlide is the starting point for a create. Slides are active unless
// the payload says otherwise.
func NewHeroSlide() *HeroSlide {
	return &HeroSlide{IsActive: true}
}

func (in HeroSlideInput) Apply(s *HeroSlide) {
	setText(&s.Title, in.Title)
	setText(&s.Subtitle, in.Subtitle)
	setNullable(&s.BackgroundImage, in.BackgroundImage)
	setNullable(&s.VideoBackground, in.VideoBackground)
	setText(&s.CTAText, in.CTAText)
	setText(&s.CTALink, in.CTALink)
	setInt(&s.OrderIndex, in.OrderIndex)
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
}
