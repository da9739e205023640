package postgresql

import (
	"context"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

type LocationRepo struct {
	db db.DB
}

func NewLocationRepo(db db.DB) storage.LocationRepository {
	return &LocationRepo{db: db}
}

// CreateTx appends a sample to the location log.
func (r *LocationRepo) CreateTx(ctx context.Context, tx db.Tx, s *repository.LocationSample) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO delivery_location_history (
            delivery_id, delivery_partner_id, latitude, longitude, heading, speed, accuracy, recorded_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, s.DeliveryID, s.DeliveryPartnerID, s.Latitude, s.Longitude, s.Heading, s.Speed, s.Accuracy, s.RecordedAt)
	return err
}

// ListRecent returns up to limit samples, newest first.
func (r *LocationRepo) ListRecent(ctx context.Context, deliveryID int64, limit int) ([]*repository.LocationSample, error) {
	var samples []*repository.LocationSample
	err := r.db.Select(ctx, &samples, `
        SELECT * FROM delivery_location_history
        WHERE delivery_id = $1
        ORDER BY recorded_at DESC, id DESC
        LIMIT $2
    `, deliveryID, limit)
	return samples, err
}
