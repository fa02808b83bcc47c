package models

import (
	"time"

	"gorm.io/datatypes"
)

// AboutContent, FooterContent and ExpertiseContent are single-row tables.

type AboutContent struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Subtitle    string    `json:"subtitle" gorm:"type:text;not null;default:''"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	Mission     string    `json:"mission" gorm:"type:text;not null;default:''"`
	Vision      string    `json:"vision" gorm:"type:text;not null;default:''"`
	Image       *string   `json:"image" gorm:"type:text"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AboutContent) TableName() string { return "about_content" }

type AboutContentInput struct {
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Description *string `json:"description"`
	Mission     *string `json:"mission"`
	Vision      *string `json:"vision"`
	Image       *string `json:"image"`
}

func (in AboutContentInput) Validate() error {
	return firstErr(
		requireText("title", in.Title, true),
		optionalURL("image", in.Image),
	)
}

func (in AboutContentInput) Apply(a *AboutContent) {
	setText(&a.Title, in.Title)
	setText(&a.Subtitle, in.Subtitle)
	if in.Description != nil {
		a.Description = *in.Description
	}
	setText(&a.Mission, in.Mission)
	setText(&a.Vision, in.Vision)
	setNullable(&a.Image, in.Image)
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type FooterContent struct {
	ID                 int64                          `json:"id" gorm:"primaryKey"`
	CompanyDescription string                         `json:"company_description" gorm:"type:text;not null;default:''"`
	Address            string                         `json:"address" gorm:"type:text;not null;default:''"`
	Phone              string                         `json:"phone" gorm:"type:text;not null;default:''"`
	Email              string                         `json:"email" gorm:"type:text;not null;default:''"`
	SocialLinks        datatypes.JSONSlice[SocialLink] `json:"social_links"`
	Copyright          string                         `json:"copyright" gorm:"type:text;not null;default:''"`
	UpdatedAt          time.Time                      `json:"updated_at"`
}

func (FooterContent) TableName() string { return "footer_content" }

type FooterContentInput struct {
	CompanyDescription *string       `json:"company_description"`
	Address            *string       `json:"address"`
	Phone              *string       `json:"phone"`
	Email              *string       `json:"email"`
	SocialLinks        *[]SocialLink `json:"social_links"`
	Copyright          *string       `json:"copyright"`
}

func (in FooterContentInput) Validate() error {
	if in.SocialLinks != nil {
		for _, link := range *in.SocialLinks {
			url := link.URL
			if err := firstErr(
				requireText("social_links.platform", &link.Platform, true),
				optionalURL("social_links.url", &url),
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func (in FooterContentInput) Apply(f *FooterContent) {
	setText(&f.CompanyDescription, in.CompanyDescription)
	setText(&f.Address, in.Address)
	setText(&f.Phone, in.Phone)
	setText(&f.Email, in.Email)
	if in.SocialLinks != nil {
		f.SocialLinks = datatypes.JSONSlice[SocialLink](*in.SocialLinks)
	}
	if f.SocialLinks == nil {
		f.SocialLinks = datatypes.JSONSlice[SocialLink]{}
	}
	setText(&f.Copyright, in.Copyright)
}

type ExpertiseContent struct {
	ID          int64                      `json:"id" gorm:"primaryKey"`
	Title       string                     `json:"title" gorm:"type:text;not null"`
	Description string                     `json:"description" gorm:"type:text;not null;default:''"`
	Items       datatypes.JSONSlice[string] `json:"items"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

func (ExpertiseContent) TableName() string { return "expertise_content" }

type ExpertiseContentInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Items       *[]string `json:"items"`
}

func (in ExpertiseContentInput) Validate() error {
	return requireText("title", in.Title, true)
}

func (in ExpertiseContentInput) Apply(e *ExpertiseContent) {
	setText(&e.Title, in.Title)
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Items != nil {
		e.Items = StringList(*in.Items)
	}
	if e.Items == nil {
		e.Items = StringList(nil)
	}
}

// ImpactStat is a headline number such as "150+ projects delivered".
type ImpactStat struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Label      string    `json:"label" gorm:"type:text;not null"`
	Value      string    `json:"value" gorm:"type:text;not null"`
	Suffix     string    `json:"suffix" gorm:"type:text;not null;default:''"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ImpactStatInput struct {
	Label      *string `json:"label"`
	Value      *string `json:"value"`
	Suffix     *string `json:"suffix"`
	OrderIndex *int    `json:"order_index"`
}

func (in ImpactStatInput) Validate(create bool) error {
	return firstErr(
		requireText("label", in.Label, create),
		requireText("value", in.Value, create),
	)
}

func (in ImpactStatInput) Apply(s *ImpactStat) {
	setText(&s.Label, in.Label)
	setText(&s.Value, in.Value)
	setText(&s.Suffix, in.Suffix)
	setInt(&s.OrderIndex, in.OrderIndex)
}
