package database

import (
	"context"

	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/gorm"
)

type ClientRepo struct {
	crudRepo[models.Client]
}

func NewClientRepo(db *gorm.DB) *ClientRepo {
	return &ClientRepo{crudRepo[models.Client]{db: db, order: "order_index ASC, id ASC"}}
}

// FindAll returns clients and partners, or only one kind when clientType is set
func (r *ClientRepo) FindAll(ctx context.Context, clientType models.ClientType) ([]models.Client, error) {
	q := conn(ctx, r.db)
	if clientType != "" {
		q = q.Where("type = ?", clientType)
	}
	clients := make([]models.Client, 0)
	err := q.Order(r.order).Find(&clients).Error
	return clients, err
}

type LocationRepo struct {
	crudRepo[models.Location]
}

func NewLocationRepo(db *gorm.DB) *LocationRepo {
	return &LocationRepo{crudRepo[models.Location]{db: db, order: "order_index ASC, id ASC"}}
}

type HeroSlideRepo struct {
	crudRepo[models.HeroSlide]
}

func NewHeroSlideRepo(db *gorm.DB) *HeroSlideRepo {
	return &HeroSlideRepo{crudRepo[models.HeroSlide]{db: db, order: "order_index ASC, id ASC"}}
}

// FindAll returns every slide, or only the active ones for the public carousel
func (r *HeroSlideRepo) FindAll(ctx context.Context, activeOnly bool) ([]models.HeroSlide, error) {
	q := conn(ctx, r.db)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	slides := make([]models.HeroSlide, 0)
	err := q.Order(r.order).Find(&slides).Error
	return slides, err
}

type ImpactStatRepo struct {
	crudRepo[models.ImpactStat]
}

func NewImpactStatRepo(db *gorm.DB) *ImpactStatRepo {
	return &ImpactStatRepo{crudRepo[models.ImpactStat]{db: db, order: "order_index ASC, id ASC"}}
}

type ContactMessageRepo struct {
	crudRepo[models.ContactMessage]
}

func NewContactMessageRepo(db *gorm.DB) *ContactMessageRepo {
	return &ContactMessageRepo{crudRepo[models.ContactMessage]{db: db, order: "created_at DESC, id DESC"}}
}

// MarkRead flags a message as read and reports whether it exists
func (r *ContactMessageRepo) MarkRead(ctx context.Context, id int64) (bool, error) {
	res := conn(ctx, r.db).Model(&models.ContactMessage{}).Where("id = ?", id).Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}
