package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type PartnerRepo struct {
	db db.DB
}

func NewPartnerRepo(db db.DB) storage.PartnerRepository {
	return &PartnerRepo{db: db}
}

// Create inserts a pending partner and fills ID and CreatedAt.
func (r *PartnerRepo) Create(ctx context.Context, p *repository.DeliveryPartner) error {
	err := r.db.Get(ctx, p, `
        INSERT INTO delivery_partners (
            user_id, vehicle_type, vehicle_number, license_number, status, is_available
        ) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING *
    `, p.UserID, p.VehicleType, p.VehicleNumber, p.LicenseNumber, p.Status, p.IsAvailable)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create delivery partner: %w", err)
	}
	return nil
}

func (r *PartnerRepo) GetByID(ctx context.Context, id int64) (*repository.DeliveryPartner, error) {
	return getPartner(ctx, r.db, "SELECT * FROM delivery_partners WHERE id = $1", id)
}

func (r *PartnerRepo) GetByUserID(ctx context.Context, userID int64) (*repository.DeliveryPartner, error) {
	return getPartner(ctx, r.db, "SELECT * FROM delivery_partners WHERE user_id = $1", userID)
}

func (r *PartnerRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.DeliveryPartner, error) {
	return getPartner(ctx, tx, "SELECT * FROM delivery_partners WHERE id = $1 FOR UPDATE", id)
}

func (r *PartnerRepo) GetByUserIDTx(ctx context.Context, tx db.Tx, userID int64) (*repository.DeliveryPartner, error) {
	return getPartner(ctx, tx, "SELECT * FROM delivery_partners WHERE user_id = $1 FOR UPDATE", userID)
}

func getPartner(ctx context.Context, q db.Querier, query string, arg int64) (*repository.DeliveryPartner, error) {
	var p repository.DeliveryPartner
	if err := q.Get(ctx, &p, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns the roster, optionally filtered by approval status.
func (r *PartnerRepo) List(ctx context.Context, status string) ([]*repository.DeliveryPartner, error) {
	query := "SELECT * FROM delivery_partners"
	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	var partners []*repository.DeliveryPartner
	err := r.db.Select(ctx, &partners, query, args...)
	return partners, err
}

func (r *PartnerRepo) ListEligible(ctx context.Context) ([]*repository.DeliveryPartner, error) {
	var partners []*repository.DeliveryPartner
	err := r.db.Select(ctx, &partners, `
        SELECT * FROM delivery_partners
        WHERE status = 'approved' AND is_available = true
        ORDER BY id ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible partners: %w", err)
	}
	return partners, nil
}

func (r *PartnerRepo) UpdateStatus(ctx context.Context, id int64, status string, reason *string, approvedAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE delivery_partners
        SET
            status = $1,
            rejection_reason = $2,
            approved_at = $3
        WHERE id = $4
    `, status, reason, approvedAt, id)
	return affectedOne(tag, err)
}

func (r *PartnerRepo) SetAvailabilityTx(ctx context.Context, tx db.Tx, id int64, available bool) error {
	tag, err := tx.Exec(ctx, "UPDATE delivery_partners SET is_available = $1 WHERE id = $2", available, id)
	return affectedOne(tag, err)
}

// CompleteDeliveryTx credits a finished delivery and frees the partner.
func (r *PartnerRepo) CompleteDeliveryTx(ctx context.Context, tx db.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `
        UPDATE delivery_partners
        SET
            total_deliveries = total_deliveries + 1,
            is_available = true
        WHERE id = $1
    `, id)
	return affectedOne(tag, err)
}

func (r *PartnerRepo) UpdateLocationTx(ctx context.Context, tx db.Tx, id int64, lat, lon float64) error {
	tag, err := tx.Exec(ctx, `
        UPDATE delivery_partners
        SET
            current_latitude = $1,
            current_longitude = $2
        WHERE id = $3
    `, lat, lon, id)
	return affectedOne(tag, err)
}

func affectedOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
