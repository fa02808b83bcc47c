package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// crudRepo holds the queries shared by every table keyed by an int64 id.
// Entity repos embed it and add their own filters and relations.
type crudRepo[T any] struct {
	db    *gorm.DB
	order string
}

// GetDB returns the underlying database connection for debugging purposes
func (r crudRepo[T]) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns every row in display order
func (r crudRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	err := conn(ctx, r.db).Order(r.order).Find(&items).Error
	return items, err
}

// FindByID returns nil, nil when no row has the given id
func (r crudRepo[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return first[T](conn(ctx, r.db), "id = ?", id)
}

// FindByIDs returns the rows whose id is in ids, in display order
func (r crudRepo[T]) FindByIDs(ctx context.Context, ids []int64) ([]T, error) {
	return findIn[T](conn(ctx, r.db), ids, r.order)
}

// Add inserts a new row
func (r crudRepo[T]) Add(ctx context.Context, item *T) error {
	return conn(ctx, r.db).Create(item).Error
}

// Update writes every column of an existing row. updated_at is stamped by gorm.
func (r crudRepo[T]) Update(ctx context.Context, item *T) error {
	return updateRow(conn(ctx, r.db), item)
}

// Delete removes a row by id and reports whether it existed
func (r crudRepo[T]) Delete(ctx context.Context, id int64) (bool, error) {
	res := conn(ctx, r.db).Delete(new(T), id)
	return res.RowsAffected > 0, res.Error
}

// updateRow overwrites every column of an existing row. Unlike Save it never
// inserts, so a row deleted since it was read yields gorm.ErrRecordNotFound.
func updateRow(db *gorm.DB, item interface{}) error {
	res := db.Model(item).Select("*").Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func first[T any](db *gorm.DB, query string, args ...interface{}) (*T, error) {
	var item T
	err := db.Where(query, args...).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func findIn[T any](db *gorm.DB, ids []int64, order string) ([]T, error) {
	items := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := db.Where("id IN ?", ids).Order(order).Find(&items).Error
	return items, err
}

// SingletonRepo stores a table that only ever holds one row, such as the
// about page content.
type SingletonRepo[T any] struct {
	db *gorm.DB
}

func NewSingletonRepo[T any](db *gorm.DB) *SingletonRepo[T] {
	return &SingletonRepo[T]{db: db}
}

// Get returns the row, or nil, nil when nothing has been saved yet
func (r *SingletonRepo[T]) Get(ctx context.Context) (*T, error) {
	var item T
	err := conn(ctx, r.db).Order("id ASC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Save inserts the row when its id is zero and overwrites it otherwise
func (r *SingletonRepo[T]) Save(ctx context.Context, item *T) error {
	return conn(ctx, r.db).Save(item).Error
}
