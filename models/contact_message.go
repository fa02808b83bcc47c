package models

import (
	"net/mail"
	"time"

	"github.com/rpupo63/consultancy-site-backend/errs"
)

type ContactMessage struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" gorm:"type:text;not null"`
	Company   string    `json:"company" gorm:"type:text;not null;default:''"`
	Phone     string    `json:"phone" gorm:"type:text;not null;default:''"`
	Subject   string    `json:"subject" gorm:"type:text;not null;default:''"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContactMessageInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject"`
	Message *string `json:"message"`
}

func (in ContactMessageInput) Validate() error {
	if err := firstErr(
		requireText("name", in.Name, true),
		requireText("email", in.Email, true),
		requireText("message", in.Message, true),
		maxLength("name", in.Name, 120),
		maxLength("subject", in.Subject, 200),
		maxLength("message", in.Message, 5000),
	); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(*in.Email); err != nil {
		return errs.NewInvalidFieldError("email", "not a valid address")
	}
	return nil
}

func (in ContactMessageInput) ToModel() ContactMessage {
	var m ContactMessage
	setText(&m.Name, in.Name)
	setText(&m.Email, in.Email)
	setText(&m.Company, in.Company)
	setText(&m.Phone, in.Phone)
	setText(&m.Subject, in.Subject)
	setText(&m.Message, in.Message)
	return m
}
