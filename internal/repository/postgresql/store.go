package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

const storeColumns = "id, owner_id, name, address, latitude, longitude"

type StoreRepo struct {
	db db.DB
}

func NewStoreRepo(db db.DB) storage.StoreRepository {
	return &StoreRepo{db: db}
}

func (r *StoreRepo) GetByID(ctx context.Context, id int64) (*repository.Store, error) {
	return getStore(ctx, r.db, id)
}

func (r *StoreRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Store, error) {
	return getStore(ctx, tx, id)
}

func getStore(ctx context.Context, q db.Querier, id int64) (*repository.Store, error) {
	var store repository.Store
	err := q.Get(ctx, &store, "SELECT "+storeColumns+" FROM stores WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &store, nil
}
