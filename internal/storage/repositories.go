//go:generate mockgen -source ./repositories.go -destination=./mocks/repositories.go -package=mock_storage
package storage

import (
	"context"
	"time"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/geo"
	"github.com/sirahabazaar/delivery/internal/repository"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*repository.Order, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Order, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, id int64, status string, updatedAt time.Time) error
	ListAvailable(ctx context.Context) ([]*repository.AvailableOrder, error)
}

type OrderHistoryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.OrderHistoryEntry) error
	GetByOrderID(ctx context.Context, orderID int64) ([]*repository.OrderHistoryEntry, error)
}

type StoreRepository interface {
	GetByID(ctx context.Context, id int64) (*repository.Store, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Store, error)
}

type PartnerRepository interface {
	Create(ctx context.Context, partner *repository.DeliveryPartner) error
	GetByID(ctx context.Context, id int64) (*repository.DeliveryPartner, error)
	GetByUserID(ctx context.Context, userID int64) (*repository.DeliveryPartner, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.DeliveryPartner, error)
	GetByUserIDTx(ctx context.Context, tx db.Tx, userID int64) (*repository.DeliveryPartner, error)
	List(ctx context.Context, status string) ([]*repository.DeliveryPartner, error)
	ListEligible(ctx context.Context) ([]*repository.DeliveryPartner, error)
	UpdateStatus(ctx context.Context, id int64, status string, reason *string, approvedAt *time.Time) error
	SetAvailabilityTx(ctx context.Context, tx db.Tx, id int64, available bool) error
	CompleteDeliveryTx(ctx context.Context, tx db.Tx, id int64) error
	UpdateLocationTx(ctx context.Context, tx db.Tx, id int64, lat, lon float64) error
}

type DeliveryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, delivery *repository.Delivery) error
	GetByID(ctx context.Context, id int64) (*repository.Delivery, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Delivery, error)
	GetActiveByOrderIDTx(ctx context.Context, tx db.Tx, orderID int64) (*repository.Delivery, error)
	ListByPartnerID(ctx context.Context, partnerID int64, activeOnly bool) ([]*repository.Delivery, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, delivery *repository.Delivery) error
	ReassignTx(ctx context.Context, tx db.Tx, id, partnerID int64, assignedAt time.Time) error
	UpdateLocationTx(ctx context.Context, tx db.Tx, sample *repository.LocationSample) error
	FlagStale(ctx context.Context, cutoff time.Time) ([]*repository.Delivery, error)
}

type DeliveryHistoryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.DeliveryStatusEntry) error
	GetByDeliveryID(ctx context.Context, deliveryID int64) ([]*repository.DeliveryStatusEntry, error)
}

type LocationRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, sample *repository.LocationSample) error
	ListRecent(ctx context.Context, deliveryID int64, limit int) ([]*repository.LocationSample, error)
}

type ZoneRepository interface {
	Create(ctx context.Context, zone *repository.DeliveryZone) error
	Update(ctx context.Context, zone *repository.DeliveryZone) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*repository.DeliveryZone, error)
	List(ctx context.Context, activeOnly bool) ([]*repository.DeliveryZone, error)
}

type UserRepository interface {
	Create(ctx context.Context, username, password, role string) (int64, error)
	EnsureUser(ctx context.Context, username, password, role string) error
	Authenticate(ctx context.Context, username, password string) (*repository.User, error)
}

// ZoneCache serves fee zones to the estimator without a round trip.
type ZoneCache interface {
	Zones() []geo.Zone
	Set(zone *repository.DeliveryZone)
	Delete(id int64)
}

// Notifier hands a delivery event to the dispatcher. Callers treat failures
// as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, event repository.DeliveryEvent) error
}
