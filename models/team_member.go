package models

import (
	"net/mail"
	"time"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"gorm.io/datatypes"
)

type TeamMember struct {
	ID         int64                      `json:"id" gorm:"primaryKey"`
	Name       string                     `json:"name" gorm:"type:text;not null"`
	Position   string                     `json:"position" gorm:"type:text;not null;default:''"`
	Department string                     `json:"department" gorm:"type:text;not null;default:''"`
	Location   string                     `json:"location" gorm:"type:text;not null;default:''"`
	Bio        string                     `json:"bio" gorm:"type:text;not null;default:''"`
	Expertise  datatypes.JSONSlice[string] `json:"expertise"`
	Image      *string                    `json:"image" gorm:"type:text"`
	Slug       string                     `json:"slug" gorm:"type:text;not null;uniqueIndex:idx_team_members_slug"`
	Email      string                     `json:"email" gorm:"type:text;not null;default:''"`
	Phone      string                     `json:"phone" gorm:"type:text;not null;default:''"`
	LinkedIn   string                     `json:"linkedin" gorm:"column:linkedin;type:text;not null;default:''"`
	OrderIndex int                        `json:"order_index" gorm:"not null;default:0"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

type TeamMemberInput struct {
	Name       *string   `json:"name"`
	Position   *string   `json:"position"`
	Department *string   `json:"department"`
	Location   *string   `json:"location"`
	Bio        *string   `json:"bio"`
	Expertise  *[]string `json:"expertise"`
	Image      *string   `json:"image"`
	Slug       *string   `json:"slug"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	LinkedIn   *string   `json:"linkedin"`
	OrderIndex *int      `json:"order_index"`
	ServiceIDs []int64   `json:"service_ids"`
}

func (in TeamMemberInput) Validate(create bool) error {
	if in.Email != nil && *in.Email != "" {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return errs.NewInvalidFieldError("email", "not a valid address")
		}
	}
	return firstErr(
		requireText("name", in.Name, create),
		maxLength("name", in.Name, 120),
		optionalURL("image", in.Image),
		optionalURL("linkedin", in.LinkedIn),
		positiveIDs("service_ids", in.ServiceIDs),
	)
}

func (in TeamMemberInput) Apply(m *TeamMember) {
	setText(&m.Name, in.Name)
	setText(&m.Position, in.Position)
	setText(&m.Department, in.Department)
	setText(&m.Location, in.Location)
	if in.Bio != nil {
		m.Bio = *in.Bio
	}
	if in.Expertise != nil {
		m.Expertise = StringList(*in.Expertise)
	}
	if m.Expertise == nil {
		m.Expertise = StringList(nil)
	}
	setNullable(&m.Image, in.Image)
	setText(&m.Email, in.Email)
	setText(&m.Phone, in.Phone)
	setText(&m.LinkedIn, in.LinkedIn)
	setInt(&m.OrderIndex, in.OrderIndex)
}
