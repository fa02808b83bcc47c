package database

import (
	"context"

	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/gorm"
)

type TeamMemberRepo struct {
	crudRepo[models.TeamMember]
}

func NewTeamMemberRepo(db *gorm.DB) *TeamMemberRepo {
	return &TeamMemberRepo{crudRepo[models.TeamMember]{db: db, order: "order_index ASC, id ASC"}}
}

// FindBySlug returns nil, nil when no member has the slug
func (r *TeamMemberRepo) FindBySlug(ctx context.Context, slug string) (*models.TeamMember, error) {
	return first[models.TeamMember](conn(ctx, r.db), "slug = ?", slug)
}

func (r *TeamMemberRepo) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	return slugsWithPrefix(conn(WithPrimary(ctx), r.db), &models.TeamMember{}, base)
}

func (r *TeamMemberRepo) Add(ctx context.Context, member *models.TeamMember, serviceIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return teamMemberServices.insert(tx, member.ID, models.UniqueIDs(serviceIDs))
	})
}

func (r *TeamMemberRepo) Update(ctx context.Context, member *models.TeamMember, serviceIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateRow(tx, member); err != nil {
			return err
		}
		if serviceIDs == nil {
			return nil
		}
		return teamMemberServices.sync(tx, member.ID, serviceIDs)
	})
}

func (r *TeamMemberRepo) Services(ctx context.Context, memberID int64) ([]models.Service, error) {
	db := conn(ctx, r.db)
	ids, err := teamMemberServices.childIDs(db, memberID)
	if err != nil {
		return nil, err
	}
	return findIn[models.Service](db, ids, serviceOrder)
}

func (r *TeamMemberRepo) ServiceIDs(ctx context.Context, memberIDs []int64) (map[int64][]int64, error) {
	return teamMemberServices.childIDsFor(conn(ctx, r.db), memberIDs)
}

func (r *TeamMemberRepo) SetServices(ctx context.Context, memberID int64, serviceIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return teamMemberServices.sync(tx, memberID, serviceIDs)
	})
}
