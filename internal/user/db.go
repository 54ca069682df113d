package user

import (
	"context"
	"fmt"

	"jastip-express/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetProfileByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := d.Bun.NewSelect().
		Model(&profile).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &profile, nil
}

func (d *DB) GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := d.Bun.NewSelect().
		Model(&profile).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &profile, nil
}

func (d *DB) CreateProfile(ctx context.Context, profile models.UserProfile) error {
	_, err := d.Bun.NewInsert().Model(&profile).Exec(ctx)
	return err
}

func (d *DB) UpdateProfile(ctx context.Context, profile models.UserProfile) error {
	_, err := d.Bun.NewUpdate().
		Model(&profile).
		Column("name", "email", "phone", "address").
		Where("id = ?", profile.ID).
		Exec(ctx)
	return err
}
