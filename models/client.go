package models

import (
	"time"

	"github.com/rpupo63/consultancy-site-backend/errs"
)

type ClientType string

const (
	ClientTypeClient  ClientType = "client"
	ClientTypePartner ClientType = "partner"
)

func (t ClientType) Valid() bool {
	return t == ClientTypeClient || t == ClientTypePartner
}

// Client is a client or partner logo shown on the site.
type Client struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"type:text;not null"`
	Logo        *string    `json:"logo" gorm:"type:text"`
	Type        ClientType `json:"type" gorm:"type:text;not null;default:'client';index"`
	Description string     `json:"description" gorm:"type:text;not null;default:''"`
	URL         string     `json:"url" gorm:"column:url;type:text;not null;default:''"`
	OrderIndex  int        `json:"order_index" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ClientInput struct {
	Name        *string     `json:"name"`
	Logo        *string     `json:"logo"`
	Type        *ClientType `json:"type"`
	Description *string     `json:"description"`
	URL         *string     `json:"url"`
	OrderIndex  *int        `json:"order_index"`
}

func (in ClientInput) Validate(create bool) error {
	if in.Type != nil && !in.Type.Valid() {
		return errs.NewInvalidFieldError("type", "must be client or partner")
	}
	return firstErr(
		requireText("name", in.Name, create),
		optionalURL("logo", in.Logo),
		optionalURL("url", in.URL),
	)
}

func (in ClientInput) Apply(c *Client) {
	setText(&c.Name, in.Name)
	setNullable(&c.Logo, in.Logo)
	if in.Type != nil {
		c.Type = *in.Type
	}
	if c.Type == "" {
		c.Type = ClientTypeClient
	}
	setText(&c.Description, in.Description)
	setText(&c.URL, in.URL)
	setInt(&c.OrderIndex, in.OrderIndex)
}
