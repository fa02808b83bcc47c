package database

import (
	"context"

	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	crudRepo[models.User]
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{crudRepo[models.User]{db: db, order: "id ASC"}}
}

// FindByUsername returns nil, nil when the username is unknown
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](conn(ctx, r.db), "username = ?", username)
}

// Count returns the number of accounts, used to let the first user register
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.User{}).Count(&n).Error
	return n, err
}
