package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

type ZoneRepo struct {
	db db.DB
}

func NewZoneRepo(db db.DB) storage.ZoneRepository {
	return &ZoneRepo{db: db}
}

func (r *ZoneRepo) Create(ctx context.Context, z *repository.DeliveryZone) error {
	err := r.db.Get(ctx, z, `
        INSERT INTO delivery_zones (
            name, min_distance, max_distance, base_fee, per_km_rate, is_active
        ) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING *
    `, z.Name, z.MinDistance, z.MaxDistance, z.BaseFee, z.PerKmRate, z.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create delivery zone: %w", err)
	}
	return nil
}

func (r *ZoneRepo) Update(ctx context.Context, z *repository.DeliveryZone) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE delivery_zones
        SET
            name = $1,
            min_distance = $2,
            max_distance = $3,
            base_fee = $4,
            per_km_rate = $5,
            is_active = $6
        WHERE id = $7
    `, z.Name, z.MinDistance, z.MaxDistance, z.BaseFee, z.PerKmRate, z.IsActive, z.ID)
	return affectedOne(tag, err)
}

func (r *ZoneRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM delivery_zones WHERE id = $1", id)
	return affectedOne(tag, err)
}

func (r *ZoneRepo) GetByID(ctx context.Context, id int64) (*repository.DeliveryZone, error) {
	var z repository.DeliveryZone
	if err := r.db.Get(ctx, &z, "SELECT * FROM delivery_zones WHERE id = $1", id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &z, nil
}

func (r *ZoneRepo) List(ctx context.Context, activeOnly bool) ([]*repository.DeliveryZone, error) {
	query := "SELECT * FROM delivery_zones"
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY min_distance ASC, id ASC"

	var zones []*repository.DeliveryZone
	if err := r.db.Select(ctx, &zones, query); err != nil {
		return nil, fmt.Errorf("failed to list delivery zones: %w", err)
	}
	return zones, nil
}
