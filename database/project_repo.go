package database

import (
	"context"

	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	crudRepo[models.Project]
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{crudRepo[models.Project]{db: db, order: "order_index ASC, id ASC"}}
}

// FindAll returns the projects matching filter in display order
func (r *ProjectRepo) FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	q := conn(ctx, r.db)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.HideDrafts {
		q = q.Where("status <> ?", models.ProjectStatusDraft)
	}
	projects := make([]models.Project, 0)
	err := q.Order(r.order).Find(&projects).Error
	return projects, err
}

// Add inserts a project and links serviceIDs in one transaction
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project, serviceIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return projectServices.insert(tx, project.ID, models.UniqueIDs(serviceIDs))
	})
}

// Update saves the project and, when serviceIDs is non-nil, replaces its
// services in the same transaction
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project, serviceIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateRow(tx, project); err != nil {
			return err
		}
		if serviceIDs == nil {
			return nil
		}
		return projectServices.sync(tx, project.ID, serviceIDs)
	})
}

// Services returns the services linked to a project
func (r *ProjectRepo) Services(ctx context.Context, projectID int64) ([]models.Service, error) {
	db := conn(ctx, r.db)
	ids, err := projectServices.childIDs(db, projectID)
	if err != nil {
		return nil, err
	}
	return findIn[models.Service](db, ids, serviceOrder)
}

// ServiceIDs returns the linked service ids for each of projectIDs
func (r *ProjectRepo) ServiceIDs(ctx context.Context, projectIDs []int64) (map[int64][]int64, error) {
	return projectServices.childIDsFor(conn(ctx, r.db), projectIDs)
}

// SetServices replaces the services linked to a project
func (r *ProjectRepo) SetServices(ctx context.Context, projectID int64, serviceIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return projectServices.sync(tx, projectID, serviceIDs)
	})
}
