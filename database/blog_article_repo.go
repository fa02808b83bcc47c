package database

import (
	"context"

	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/gorm"
)

type BlogArticleRepo struct {
	crudRepo[models.BlogArticle]
}

func NewBlogArticleRepo(db *gorm.DB) *BlogArticleRepo {
	return &BlogArticleRepo{crudRepo[models.BlogArticle]{db: db, order: "published_at DESC NULLS LAST, created_at DESC, id DESC"}}
}

// FindAll returns the articles matching filter, newest first
func (r *BlogArticleRepo) FindAll(ctx context.Context, filter models.BlogArticleFilter) ([]models.BlogArticle, error) {
	q := conn(ctx, r.db)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.ServiceID != 0 {
		sub := r.db.Table(blogArticleServices.table).
			Select(blogArticleServices.parentCol).
			Where(blogArticleServices.childCol+" = ?", filter.ServiceID)
		q = q.Where("id IN (?)", sub)
	}
	articles := make([]models.BlogArticle, 0)
	err := q.Order(r.order).Find(&articles).Error
	return articles, err
}

// FindBySlug returns nil, nil when no article has the slug
func (r *BlogArticleRepo) FindBySlug(ctx context.Context, slug string) (*models.BlogArticle, error) {
	return first[models.BlogArticle](conn(ctx, r.db), "slug = ?", slug)
}

// SlugsWithPrefix lists the slugs equal to base or of the form base-N.
// Slugs only hold [a-z0-9-] so base needs no LIKE escaping. The lookup runs
// on the primary so a slug taken a moment ago is never missed.
func (r *BlogArticleRepo) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	return slugsWithPrefix(conn(WithPrimary(ctx), r.db), &models.BlogArticle{}, base)
}

// Add inserts an article with its service and project links in one transaction
func (r *BlogArticleRepo) Add(ctx context.Context, article *models.BlogArticle, serviceIDs, projectIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		if err := blogArticleServices.insert(tx, article.ID, models.UniqueIDs(serviceIDs)); err != nil {
			return err
		}
		return blogArticleProjects.insert(tx, article.ID, models.UniqueIDs(projectIDs))
	})
}

// Update saves the article. Non-nil id lists replace the matching relation
// in the same transaction.
func (r *BlogArticleRepo) Update(ctx context.Context, article *models.BlogArticle, serviceIDs, projectIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateRow(tx, article); err != nil {
			return err
		}
		if serviceIDs != nil {
			if err := blogArticleServices.sync(tx, article.ID, serviceIDs); err != nil {
				return err
			}
		}
		if projectIDs != nil {
			return blogArticleProjects.sync(tx, article.ID, projectIDs)
		}
		return nil
	})
}

// Delete removes both link sets and the article in one transaction
func (r *BlogArticleRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := blogArticleServices.clear(tx, id); err != nil {
			return err
		}
		if err := blogArticleProjects.clear(tx, id); err != nil {
			return err
		}
		res := tx.Delete(&models.BlogArticle{}, id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

// Services returns the services linked to an article
func (r *BlogArticleRepo) Services(ctx context.Context, articleID int64) ([]models.Service, error) {
	db := conn(ctx, r.db)
	ids, err := blogArticleServices.childIDs(db, articleID)
	if err != nil {
		return nil, err
	}
	return findIn[models.Service](db, ids, serviceOrder)
}

// Projects returns the projects linked to an article
func (r *BlogArticleRepo) Projects(ctx context.Context, articleID int64) ([]models.Project, error) {
	db := conn(ctx, r.db)
	ids, err := blogArticleProjects.childIDs(db, articleID)
	if err != nil {
		return nil, err
	}
	return findIn[models.Project](db, ids, "order_index ASC, id ASC")
}

// RelationIDs returns the linked service and project ids of each article
func (r *BlogArticleRepo) RelationIDs(ctx context.Context, articleIDs []int64) (services, projects map[int64][]int64, err error) {
	db := conn(ctx, r.db)
	if services, err = blogArticleServices.childIDsFor(db, articleIDs); err != nil {
		return nil, nil, err
	}
	if projects, err = blogArticleProjects.childIDsFor(db, articleIDs); err != nil {
		return nil, nil, err
	}
	return services, projects, nil
}

func (r *BlogArticleRepo) SetServices(ctx context.Context, articleID int64, serviceIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return blogArticleServices.sync(tx, articleID, serviceIDs)
	})
}

func (r *BlogArticleRepo) SetProjects(ctx context.Context, articleID int64, projectIDs []int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return blogArticleProjects.sync(tx, articleID, projectIDs)
	})
}

// AddService links one service. Linking an already linked service is a no-op.
func (r *BlogArticleRepo) AddService(ctx context.Context, articleID, serviceID int64) error {
	return blogArticleServices.insert(conn(ctx, r.db), articleID, []int64{serviceID})
}

// RemoveService unlinks one service and reports whether it was linked
func (r *BlogArticleRepo) RemoveService(ctx context.Context, articleID, serviceID int64) (bool, error) {
	res := conn(ctx, r.db).
		Where(blogArticleServices.parentCol+" = ? AND "+blogArticleServices.childCol+" = ?", articleID, serviceID).
		Delete(&models.BlogArticleService{})
	return res.RowsAffected > 0, res.Error
}

func slugsWithPrefix(db *gorm.DB, model interface{}, base string) ([]string, error) {
	slugs := make([]string, 0)
	err := db.Model(model).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &slugs).Error
	return slugs, err
}
