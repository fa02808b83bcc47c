package models

import (
	"time"

	"gorm.io/datatypes"
)

// Service is an offering of the firm. Details is an ordered list of bullet points.
type Service struct {
	ID          int64                      `json:"id" gorm:"primaryKey"`
	Title       string                     `json:"title" gorm:"type:text;not null"`
	Description string                     `json:"description" gorm:"type:text;not null;default:''"`
	Details     datatypes.JSONSlice[string] `json:"details"`
	Image       *string                    `json:"image" gorm:"type:text"`
	OrderIndex  int                        `json:"order_index" gorm:"not null;default:0"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

type ServiceInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Details     *[]string `json:"details"`
	Image       *string   `json:"image"`
	OrderIndex  *int      `json:"order_index"`
}

func (in ServiceInput) Validate(create bool) error {
	return firstErr(
		requireText("title", in.Title, create),
		maxLength("title", in.Title, 200),
		optionalURL("image", in.Image),
	)
}

func (in ServiceInput) Apply(s *Service) {
	setText(&s.Title, in.Title)
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Details != nil {
		s.Details = StringList(*in.Details)
	}
	if s.Details == nil {
		s.Details = StringList(nil)
	}
	setNullable(&s.Image, in.Image)
	setInt(&s.OrderIndex, in.OrderIndex)
}
