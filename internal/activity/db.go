package activity

import (
	"context"

	"jastip-express/internal/models"

	"github.com/uptrace/bun"
)

// DB is the bun-backed activity store. The table is append-only: there is
// deliberately no update or delete here.
type DB struct {
	Bun *bun.DB
}

func (d *DB) Insert(ctx context.Context, entry models.ActivityLog) error {
	_, err := d.Bun.NewInsert().Model(&entry).Exec(ctx)
	return err
}

func (d *DB) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := d.Bun.NewSelect().
		Model(&entries).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
