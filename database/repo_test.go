package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpupo63/consultancy-site-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds statements without a server; nothing is executed so every
// statement affects zero rows.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db
}

func TestUpdateRowNeverInserts(t *testing.T) {
	db := dryRunDB(t)

	var inserted bool
	var updateSQL string
	db.Callback().Create().Before("gorm:create").Register("test:create", func(*gorm.DB) { inserted = true })
	db.Callback().Update().After("gorm:update").Register("test:update", func(tx *gorm.DB) { updateSQL = tx.Statement.SQL.String() })

	service := models.Service{ID: 7, Title: "Audit"}
	err := updateRow(db, &service)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound when no row matched", err)
	}
	if inserted {
		t.Error("a missing row must not be recreated")
	}
	if !strings.HasPrefix(updateSQL, `UPDATE "services"`) || !strings.Contains(updateSQL, `"id" = $`) {
		t.Errorf("sql = %q", updateSQL)
	}
	if !strings.Contains(updateSQL, `"title"`) {
		t.Errorf("every column should be written, sql = %q", updateSQL)
	}
}

func TestWithPrimary(t *testing.T) {
	ctx := context.Background()
	if UsesPrimary(ctx) {
		t.Error("a plain context should read from replicas")
	}
	if !UsesPrimary(WithPrimary(ctx)) {
		t.Error("WithPrimary should pin reads to the primary")
	}
	if db := conn(WithPrimary(ctx), dryRunDB(t)); db.Statement.Context == nil {
		t.Error("conn should carry the request context")
	}
}
