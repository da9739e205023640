package postgresql

import (
	"context"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

type HistoryRepo struct {
	db db.DB
}

func NewHistoryRepo(db db.DB) storage.OrderHistoryRepository {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.OrderHistoryEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO order_status_history (
            order_id, status, changed_by, changed_at
        ) VALUES ($1, $2, $3, $4)
    `, entry.OrderID, entry.Status, entry.ChangedBy, entry.ChangedAt)
	return err
}

func (r *HistoryRepo) GetByOrderID(ctx context.Context, orderID int64) ([]*repository.OrderHistoryEntry, error) {
	var entries []*repository.OrderHistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM order_status_history
        WHERE order_id = $1
        ORDER BY changed_at ASC, id ASC
    `, orderID)
	return entries, err
}

type DeliveryHistoryRepo struct {
	db db.DB
}

func NewDeliveryHistoryRepo(db db.DB) storage.DeliveryHistoryRepository {
	return &DeliveryHistoryRepo{db: db}
}

func (r *DeliveryHistoryRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.DeliveryStatusEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO delivery_status_history (
            delivery_id, status, description, updated_by, changed_at
        ) VALUES ($1, $2, $3, $4, $5)
    `, entry.DeliveryID, entry.Status, entry.Description, entry.UpdatedBy, entry.ChangedAt)
	return err
}

func (r *DeliveryHistoryRepo) GetByDeliveryID(ctx context.Context, deliveryID int64) ([]*repository.DeliveryStatusEntry, error) {
	var entries []*repository.DeliveryStatusEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM delivery_status_history
        WHERE delivery_id = $1
        ORDER BY changed_at ASC, id ASC
    `, deliveryID)
	return entries, err
}
