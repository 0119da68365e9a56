// Package migrations bootstraps the database schema for every model the
// module persists.
package migrations

import (
	"context"

	"github.com/goliatone/go-ninecms/internal/blocks"
	"github.com/goliatone/go-ninecms/internal/media"
	"github.com/goliatone/go-ninecms/internal/menus"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/internal/taxonomy"
	"github.com/uptrace/bun"
)

var models = []any{
	(*nodes.PageType)(nil),
	(*nodes.Node)(nil),
	(*nodes.NodeRevision)(nil),
	(*menus.MenuItem)(nil),
	(*blocks.ContentBlock)(nil),
	(*blocks.LayoutElement)(nil),
	(*taxonomy.Term)(nil),
	(*taxonomy.NodeTerm)(nil),
	(*media.Image)(nil),
	(*media.File)(nil),
	(*media.Video)(nil),
}

// CreateTables creates every model table that does not exist yet.
// Creation order follows foreign key dependencies.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// DropTables removes every model table. Reverse order keeps referencing
// tables ahead of their targets.
func DropTables(ctx context.Context, db *bun.DB) error {
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().
			Model(models[i]).
			IfExists().
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops and recreates the schema. Intended for tests and local
// development only.
func Reset(ctx context.Context, db *bun.DB) error {
	if err := DropTables(ctx, db); err != nil {
		return err
	}
	return CreateTables(ctx, db)
}
