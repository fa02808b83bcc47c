package database

import (
	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/gorm"
)

const serviceOrder = "order_index ASC, id ASC"

// ServiceRepo needs nothing beyond the shared queries. Junction rows pointing
// at a deleted service go with it through ON DELETE CASCADE.
type ServiceRepo struct {
	crudRepo[models.Service]
}

func NewServiceRepo(db *gorm.DB) *ServiceRepo {
	return &ServiceRepo{crudRepo[models.Service]{db: db, order: serviceOrder}}
}
