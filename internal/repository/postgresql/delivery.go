package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

const activeDeliveryFilter = "status NOT IN ('delivered', 'cancelled')"

type DeliveryRepo struct {
	db db.DB
}

func NewDeliveryRepo(db db.DB) storage.DeliveryRepository {
	return &DeliveryRepo{db: db}
}

// CreateTx inserts the delivery and fills ID and CreatedAt. A second active
// delivery for the same order trips deliveries_active_order_uidx and is
// reported as ErrAlreadyExists.
func (r *DeliveryRepo) CreateTx(ctx context.Context, tx db.Tx, d *repository.Delivery) error {
	err := tx.Get(ctx, d, `
        INSERT INTO deliveries (
            order_id, delivery_partner_id, status, delivery_fee, pickup_address,
            delivery_address, estimated_distance, estimated_time, assigned_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING *
    `, d.OrderID, d.DeliveryPartnerID, d.Status, d.DeliveryFee, d.PickupAddress,
		d.DeliveryAddress, d.EstimatedDistance, d.EstimatedTime, d.AssignedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert delivery: %w", err)
	}
	return nil
}

func (r *DeliveryRepo) GetByID(ctx context.Context, id int64) (*repository.Delivery, error) {
	return getDelivery(ctx, r.db, "SELECT * FROM deliveries WHERE id = $1", id)
}

func (r *DeliveryRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Delivery, error) {
	return getDelivery(ctx, tx, "SELECT * FROM deliveries WHERE id = $1 FOR UPDATE", id)
}

func (r *DeliveryRepo) GetActiveByOrderIDTx(ctx context.Context, tx db.Tx, orderID int64) (*repository.Delivery, error) {
	return getDelivery(ctx, tx,
		"SELECT * FROM deliveries WHERE order_id = $1 AND "+activeDeliveryFilter+" FOR UPDATE", orderID)
}

func getDelivery(ctx context.Context, q db.Querier, query string, arg int64) (*repository.Delivery, error) {
	var d repository.Delivery
	if err := q.Get(ctx, &d, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DeliveryRepo) ListByPartnerID(ctx context.Context, partnerID int64, activeOnly bool) ([]*repository.Delivery, error) {
	query := "SELECT * FROM deliveries WHERE delivery_partner_id = $1"
	if activeOnly {
		query += " AND " + activeDeliveryFilter
	}
	query += " ORDER BY created_at DESC"

	var deliveries []*repository.Delivery
	err := r.db.Select(ctx, &deliveries, query, partnerID)
	return deliveries, err
}

func (r *DeliveryRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, d *repository.Delivery) error {
	tag, err := tx.Exec(ctx, `
        UPDATE deliveries
        SET
            status = $1,
            picked_up_at = $2,
            delivered_at = $3
        WHERE id = $4
    `, d.Status, d.PickedUpAt, d.DeliveredAt, d.ID)
	return affectedOne(tag, err)
}

// ReassignTx moves an active delivery to another partner and restarts it.
func (r *DeliveryRepo) ReassignTx(ctx context.Context, tx db.Tx, id, partnerID int64, assignedAt time.Time) error {
	tag, err := tx.Exec(ctx, `
        UPDATE deliveries
        SET
            delivery_partner_id = $1,
            assigned_at = $2,
            partner_unreachable = false
        WHERE id = $3 AND `+activeDeliveryFilter, partnerID, assignedAt, id)
	return affectedOne(tag, err)
}

// UpdateLocationTx overwrites the last known location and clears the
// unreachable flag.
func (r *DeliveryRepo) UpdateLocationTx(ctx context.Context, tx db.Tx, s *repository.LocationSample) error {
	tag, err := tx.Exec(ctx, `
        UPDATE deliveries
        SET
            last_latitude = $1,
            last_longitude = $2,
            last_heading = $3,
            last_speed = $4,
            last_accuracy = $5,
            last_location_at = $6,
            partner_unreachable = false
        WHERE id = $7
    `, s.Latitude, s.Longitude, s.Heading, s.Speed, s.Accuracy, s.RecordedAt, s.DeliveryID)
	return affectedOne(tag, err)
}

// FlagStale marks active deliveries whose newest sample, or assignment when
// no sample exists, is older than cutoff. Only newly flagged rows are returned.
func (r *DeliveryRepo) FlagStale(ctx context.Context, cutoff time.Time) ([]*repository.Delivery, error) {
	var flagged []*repository.Delivery
	err := r.db.Select(ctx, &flagged, `
        UPDATE deliveries
        SET partner_unreachable = true
        WHERE `+activeDeliveryFilter+`
          AND delivery_partner_id IS NOT NULL
          AND partner_unreachable = false
          AND COALESCE(last_location_at, assigned_at, created_at) < $1
        RETURNING *
    `, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to flag stale deliveries: %w", err)
	}
	return flagged, nil
}
