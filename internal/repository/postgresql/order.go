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

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) storage.OrderRepository {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*repository.Order, error) {
	var order repository.Order
	err := r.db.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDTx locks the order row until the transaction ends.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Order, error) {
	var order repository.Order
	err := tx.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, id int64, status string, updatedAt time.Time) error {
	tag, err := tx.Exec(ctx, `
        UPDATE orders
        SET
            status = $1,
            updated_at = $2
        WHERE id = $3
    `, status, updatedAt, id)
	return affectedOne(tag, err)
}

// ListAvailable returns ready_for_pickup orders with no active delivery,
// oldest first, joined with the pickup store.
func (r *OrderRepo) ListAvailable(ctx context.Context) ([]*repository.AvailableOrder, error) {
	query := `
        SELECT o.*,
               s.name      AS store_name,
               s.address   AS store_address,
               s.latitude  AS store_latitude,
               s.longitude AS store_longitude
        FROM orders o
        JOIN stores s ON s.id = o.store_id
        WHERE o.status = 'ready_for_pickup'
          AND NOT EXISTS (
              SELECT 1 FROM deliveries d
              WHERE d.order_id = o.id
                AND d.status NOT IN ('delivered', 'cancelled')
          )
        ORDER BY o.created_at ASC
    `
	var orders []*repository.AvailableOrder
	if err := r.db.Select(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("failed to list available orders: %w", err)
	}
	return orders, nil
}
