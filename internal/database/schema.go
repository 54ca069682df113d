package database

import (
	"context"
	"fmt"

	"jastip-express/internal/models"

	"github.com/uptrace/bun"
)

// Bootstrap creates the application tables if they do not exist yet.
// The schema is derived from the bun model tags, so tests against
// SQLite and production against Postgres share one definition.
func Bootstrap(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Event)(nil),
		(*models.Order)(nil),
		(*models.ActivityLog)(nil),
		(*models.UserProfile)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}

	return nil
}
