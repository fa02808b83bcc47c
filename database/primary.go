package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type primaryKey struct{}

// WithPrimary marks ctx so that reads made with it skip the read replicas.
// Admin requests read back rows and links they have just written.
func WithPrimary(ctx context.Context) context.Context {
	return context.WithValue(ctx, primaryKey{}, true)
}

// UsesPrimary reports whether ctx was marked by WithPrimary
func UsesPrimary(ctx context.Context) bool {
	primary, _ := ctx.Value(primaryKey{}).(bool)
	return primary
}

// conn scopes db to ctx and pins it to the primary when ctx asks for it
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	db = db.WithContext(ctx)
	if UsesPrimary(ctx) {
		db = db.Clauses(dbresolver.Write)
	}
	return db
}
