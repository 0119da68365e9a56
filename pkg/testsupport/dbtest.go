// Package testsupport provides shared helpers for integration-style
// tests that need a real database.
package testsupport

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-ninecms/internal/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// NewBunSQLiteDB opens an in-memory SQLite database wrapped in bun with
// the module schema applied.
func NewBunSQLiteDB(ctx context.Context) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := migrations.CreateTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
