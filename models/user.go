package models

import (
	"time"
	"unicode/utf8"

	"github.com/rpupo63/consultancy-site-backend/errs"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User is a CMS account. Only the bcrypt hash of the password is stored.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:text;not null;uniqueIndex:idx_users_username"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	Role         string    `json:"role" gorm:"type:text;not null;default:'editor'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate(registering bool) error {
	if c.Username == "" {
		return errs.NewMissingRequiredFieldError("username")
	}
	if c.Password == "" {
		return errs.NewMissingRequiredFieldError("password")
	}
	if !registering {
		return nil
	}
	if n := utf8.RuneCountInString(c.Username); n < 3 || n > 64 {
		return errs.NewInvalidFieldError("username", "must be between 3 and 64 characters")
	}
	if utf8.RuneCountInString(c.Password) < 8 {
		return errs.NewInvalidFieldError("password", "must be at least 8 characters")
	}
	// bcrypt ignores everything past 72 bytes
	if len(c.Password) > 72 {
		return errs.NewInvalidFieldError("password", "must be at most 72 bytes")
	}
	return nil
}
