package storage_test

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	mock_database "github.com/sirahabazaar/delivery/internal/db/mocks"
	"github.com/sirahabazaar/delivery/internal/geo"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
	mock_storage "github.com/sirahabazaar/delivery/internal/storage/mocks"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db              *mock_database.MockDB
	tx              *mock_database.MockTx
	orders          *mock_storage.MockOrderRepository
	orderHistory    *mock_storage.MockOrderHistoryRepository
	stores          *mock_storage.MockStoreRepository
	partners        *mock_storage.MockPartnerRepository
	deliveries      *mock_storage.MockDeliveryRepository
	deliveryHistory *mock_storage.MockDeliveryHistoryRepository
	locations       *mock_storage.MockLocationRepository
	zoneRepo        *mock_storage.MockZoneRepository
	zones           *mock_storage.MockZoneCache
	notifier        *mock_storage.MockNotifier
	logs            *observer.ObservedLogs
	storage         *storage.PostgresStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	core, logs := observer.New(zap.DebugLevel)
	f := &fixture{
		db:              mock_database.NewMockDB(ctrl),
		tx:              mock_database.NewMockTx(ctrl),
		orders:          mock_storage.NewMockOrderRepository(ctrl),
		orderHistory:    mock_storage.NewMockOrderHistoryRepository(ctrl),
		stores:          mock_storage.NewMockStoreRepository(ctrl),
		partners:        mock_storage.NewMockPartnerRepository(ctrl),
		deliveries:      mock_storage.NewMockDeliveryRepository(ctrl),
		deliveryHistory: mock_storage.NewMockDeliveryHistoryRepository(ctrl),
		locations:       mock_storage.NewMockLocationRepository(ctrl),
		zoneRepo:        mock_storage.NewMockZoneRepository(ctrl),
		zones:           mock_storage.NewMockZoneCache(ctrl),
		notifier:        mock_storage.NewMockNotifier(ctrl),
		logs:            logs,
	}
	f.storage = storage.NewPostgresStorage(
		f.db,
		storage.Repositories{
			Orders:          f.orders,
			OrderHistory:    f.orderHistory,
			Stores:          f.stores,
			Partners:        f.partners,
			Deliveries:      f.deliveries,
			DeliveryHistory: f.deliveryHistory,
			Locations:       f.locations,
			Zones:           f.zoneRepo,
		},
		f.zones,
		f.notifier,
		zap.New(core),
		storage.Options{
			DefaultDeliveryFee: 30,
			Now:                func() time.Time { return fixedNow },
		},
	)
	return f
}

// expectTx sets up one transaction. Rollback always runs from the deferred
// cleanup, Commit only on success.
func (f *fixture) expectTx(commit bool) {
	f.db.EXPECT().BeginTx(gomock.Any()).Return(f.tx, nil)
	if commit {
		f.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	}
	f.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
}

func float(v float64) *float64 { return &v }
func id(v int64) *int64        { return &v }

var (
	partnerActor  = storage.Actor{UserID: 70, Role: storage.RoleDeliveryPartner}
	ownerActor    = storage.Actor{UserID: 30, Role: storage.RoleStoreOwner}
	customerActor = storage.Actor{UserID: 10, Role: storage.RoleCustomer}
	adminActor    = storage.Actor{UserID: 1, Role: storage.RoleAdmin}
)

func approvedPartner() *repository.DeliveryPartner {
	return &repository.DeliveryPartner{ID: 7, UserID: 70, Status: storage.PartnerApproved, IsAvailable: true}
}

// readyOrder is placed in Lahan for delivery to Rajbiraj.
func readyOrder() *repository.Order {
	return &repository.Order{
		ID:              1,
		CustomerID:      10,
		StoreID:         3,
		Status:          storage.StatusReadyForPickup,
		ShippingAddress: "Rajbiraj",
		Latitude:        float(26.7201),
		Longitude:       float(86.4928),
	}
}

func lahanStore() *repository.Store {
	return &repository.Store{ID: 3, OwnerID: 30, Name: "Lahan Mart", Address: "Lahan", Latitude: float(26.6603), Longitude: float(86.2064)}
}

func farZone() []geo.Zone {
	return []geo.Zone{{ID: 1, Name: "far", MinDistance: 20, MaxDistance: 100, BaseFee: 100, PerKmRate: 5}}
}
