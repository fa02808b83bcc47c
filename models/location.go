package models

import (
	"time"

	"github.com/rpupo63/consultancy-site-backend/errs"
)

// Location is an office shown on the contact page map.
type Location struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	City       string    `json:"city" gorm:"type:text;not null"`
	Country    string    `json:"country" gorm:"type:text;not null"`
	Address    string    `json:"address" gorm:"type:text;not null;default:''"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	Image      *string   `json:"image" gorm:"type:text"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type LocationInput struct {
	City       *string  `json:"city"`
	Country    *string  `json:"country"`
	Address    *string  `json:"address"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Image      *string  `json:"image"`
	OrderIndex *int     `json:"order_index"`
}

func (in LocationInput) Validate(create bool) error {
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return errs.NewInvalidFieldError("latitude", "must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return errs.NewInvalidFieldError("longitude", "must be between -180 and 180")
	}
	return firstErr(
		requireText("city", in.City, create),
		requireText("country", in.Country, create),
		optionalURL("image", in.Image),
	)
}

func (in LocationInput) Apply(l *Location) {
	setText(&l.City, in.City)
	setText(&l.Country, in.Country)
	setText(&l.Address, in.Address)
	if in.Latitude != nil {
		l.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		l.Longitude = in.Longitude
	}
	setNullable(&l.Image, in.Image)
	setInt(&l.OrderIndex, in.OrderIndex)
}
