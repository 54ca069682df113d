package db

import (
	"context"
	"fmt"

	"jastip-express/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("event not found: %w", err)
	}
	return &event, nil
}

func (d *DB) CreateEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewInsert().Model(&event).Exec(ctx)
	return err
}

func (d *DB) UpdateEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewUpdate().
		Model(&event).
		Column("name", "description", "date", "catalog_url").
		Where("id = ?", event.ID).
		Exec(ctx)
	return err
}

// DeleteEvent removes the event row only. Orders under it are left in
// place; they stay reachable by ID even without their parent.
func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ListEvents returns every event, newest first.
func (d *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}
