package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

func assignedDelivery() *repository.Delivery {
	return &repository.Delivery{ID: 55, OrderID: 1, DeliveryPartnerID: id(7), Status: storage.DeliveryAssigned}
}

func TestRecordLocation(t *testing.T) {
	ctx := context.Background()
	update := storage.LocationUpdate{
		DeliveryID:        55,
		DeliveryPartnerID: 7,
		Latitude:          26.6603,
		Longitude:         86.2064,
		Heading:           float(90),
		Speed:             float(8.5),
	}

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().GetByUserID(gomock.Any(), int64(70)).Return(approvedPartner(), nil)
		f.expectTx(true)
		f.deliveries.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(55)).Return(assignedDelivery(), nil)
		f.deliveries.EXPECT().UpdateLocationTx(gomock.Any(), f.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, s *repository.LocationSample) error {
				assert.Equal(t, int64(7), s.DeliveryPartnerID)
				assert.Equal(t, 26.6603, s.Latitude)
				assert.Equal(t, 90.0, *s.Heading)
				assert.Equal(t, fixedNow, s.RecordedAt)
				return nil
			})
		f.locations.EXPECT().CreateTx(gomock.Any(), f.tx, gomock.Any()).Return(nil)
		f.partners.EXPECT().UpdateLocationTx(gomock.Any(), f.tx, int64(7), 26.6603, 86.2064).Return(nil)

		require.NoError(t, f.storage.RecordLocation(ctx, partnerActor, update))
	})

	t.Run("partner id in sample is not the caller", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().GetByUserID(gomock.Any(), int64(70)).
			Return(&repository.DeliveryPartner{ID: 8, UserID: 70, Status: storage.PartnerApproved}, nil)

		err := f.storage.RecordLocation(ctx, partnerActor, update)
		assert.ErrorIs(t, err, storage.ErrNotAssignedPartner)
	})

	t.Run("delivery belongs to someone else", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().GetByUserID(gomock.Any(), int64(70)).Return(approvedPartner(), nil)
		f.expectTx(false)
		other := assignedDelivery()
		other.DeliveryPartnerID = id(8)
		f.deliveries.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(55)).Return(other, nil)

		err := f.storage.RecordLocation(ctx, partnerActor, update)
		assert.ErrorIs(t, err, storage.ErrNotAssignedPartner)
	})

	t.Run("delivery already finished", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().GetByUserID(gomock.Any(), int64(70)).Return(approvedPartner(), nil)
		f.expectTx(false)
		done := assignedDelivery()
		done.Status = storage.DeliveryDelivered
		f.deliveries.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(55)).Return(done, nil)

		err := f.storage.RecordLocation(ctx, partnerActor, update)
		assert.ErrorIs(t, err, storage.ErrDeliveryNotActive)
	})

	t.Run("missing delivery", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().GetByUserID(gomock.Any(), int64(70)).Return(approvedPartner(), nil)
		f.expectTx(false)
		f.deliveries.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(55)).Return(nil, repository.ErrObjectNotFound)

		err := f.storage.RecordLocation(ctx, partnerActor, update)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("invalid samples never reach the database", func(t *testing.T) {
		tests := map[string]func(u *storage.LocationUpdate){
			"latitude":       func(u *storage.LocationUpdate) { u.Latitude = 91 },
			"longitude":      func(u *storage.LocationUpdate) { u.Longitude = -180.5 },
			"heading":        func(u *storage.LocationUpdate) { u.Heading = float(361) },
			"negative speed": func(u *storage.LocationUpdate) { u.Speed = float(-1) },
			"missing ids":    func(u *storage.LocationUpdate) { u.DeliveryID = 0 },
		}
		for name, mutate := range tests {
			t.Run(name, func(t *testing.T) {
				f := newFixture(t)
				u := update
				mutate(&u)
				err := f.storage.RecordLocation(ctx, partnerActor, u)
				assert.ErrorIs(t, err, storage.ErrValidation)
			})
		}
	})

	t.Run("customers cannot post locations", func(t *testing.T) {
		f := newFixture(t)
		err := f.storage.RecordLocation(ctx, customerActor, update)
		assert.ErrorIs(t, err, storage.ErrForbidden)
	})
}

func TestGetTracking(t *testing.T) {
	ctx := context.Background()

	t.Run("customer sees route and remaining distance", func(t *testing.T) {
		f := newFixture(t)
		ownerUserID := int64(30)
		seen := fixedNow.Add(-time.Minute)
		delivery := assignedDelivery()
		delivery.LastLatitude = float(26.6603)
		delivery.LastLongitude = float(86.2064)
		delivery.LastLocationAt = &seen

		f.deliveries.EXPECT().GetByID(gomock.Any(), int64(55)).Return(delivery, nil)
		f.orders.EXPECT().GetByID(gomock.Any(), int64(1)).Return(readyOrder(), nil)
		f.deliveryHistory.EXPECT().GetByDeliveryID(gomock.Any(), int64(55)).Return([]*repository.DeliveryStatusEntry{
			{DeliveryID: 55, Status: storage.DeliveryAssigned, ChangedAt: fixedNow.Add(-time.Hour)},
		}, nil)
		f.orderHistory.EXPECT().GetByOrderID(gomock.Any(), int64(1)).Return([]*repository.OrderHistoryEntry{
			{OrderID: 1, Status: storage.StatusPending, ChangedAt: fixedNow.Add(-2 * time.Hour)},
			{OrderID: 1, Status: storage.StatusReadyForPickup, ChangedBy: &ownerUserID, ChangedAt: fixedNow.Add(-time.Hour)},
		}, nil)
		f.locations.EXPECT().ListRecent(gomock.Any(), int64(55), 100).Return([]*repository.LocationSample{
			{Latitude: 26.6603, Longitude: 86.2064, RecordedAt: seen},
			{Latitude: 26.65, Longitude: 86.20, RecordedAt: seen.Add(-time.Minute)},
		}, nil)

		tracking, err := f.storage.GetTracking(ctx, customerActor, 55)
		require.NoError(t, err)

		require.NotNil(t, tracking.CurrentLocation)
		require.Len(t, tracking.Route, 2)
		assert.True(t, tracking.Route[0].RecordedAt.Before(tracking.Route[1].RecordedAt))
		require.Len(t, tracking.StatusHistory, 1)
		require.Len(t, tracking.OrderHistory, 2)
		assert.Equal(t, storage.StatusReadyForPickup, tracking.OrderHistory[1].Status)
		assert.Equal(t, int64(30), *tracking.OrderHistory[1].ChangedBy)
		require.NotNil(t, tracking.RemainingDistanceKm)
		assert.Equal(t, 29.22, *tracking.RemainingDistanceKm)
		assert.Equal(t, "1-2 hours", tracking.EstimatedTime)
	})

	t.Run("without a location the claim-time estimate is shown", func(t *testing.T) {
		f := newFixture(t)
		delivery := assignedDelivery()
		delivery.EstimatedTime = ptrTo("45-75 min")

		f.deliveries.EXPECT().GetByID(gomock.Any(), int64(55)).Return(delivery, nil)
		f.orders.EXPECT().GetByID(gomock.Any(), int64(1)).Return(readyOrder(), nil)
		f.partners.EXPECT().GetByUserID(gomock.Any(), int64(70)).Return(approvedPartner(), nil)
		f.deliveryHistory.EXPECT().GetByDeliveryID(gomock.Any(), int64(55)).Return(nil, nil)
		f.orderHistory.EXPECT().GetByOrderID(gomock.Any(), int64(1)).Return(nil, nil)
		f.locations.EXPECT().ListRecent(gomock.Any(), int64(55), 100).Return(nil, nil)

		tracking, err := f.storage.GetTracking(ctx, partnerActor, 55)
		require.NoError(t, err)
		assert.Nil(t, tracking.CurrentLocation)
		assert.Nil(t, tracking.RemainingDistanceKm)
		assert.Equal(t, "45-75 min", tracking.EstimatedTime)
		assert.Empty(t, tracking.Route)
	})

	t.Run("store owner of the order", func(t *testing.T) {
		f := newFixture(t)
		f.deliveries.EXPECT().GetByID(gomock.Any(), int64(55)).Return(assignedDelivery(), nil)
		f.orders.EXPECT().GetByID(gomock.Any(), int64(1)).Return(readyOrder(), nil)
		f.stores.EXPECT().GetByID(gomock.Any(), int64(3)).Return(lahanStore(), nil)
		f.deliveryHistory.EXPECT().GetByDeliveryID(gomock.Any(), int64(55)).Return(nil, nil)
		f.orderHistory.EXPECT().GetByOrderID(gomock.Any(), int64(1)).Return(nil, nil)
		f.locations.EXPECT().ListRecent(gomock.Any(), int64(55), 100).Return(nil, nil)

		tracking, err := f.storage.GetTracking(ctx, ownerActor, 55)
		require.NoError(t, err)
		assert.Equal(t, "unknown", tracking.EstimatedTime)
	})

	t.Run("another customer is refused", func(t *testing.T) {
		f := newFixture(t)
		f.deliveries.EXPECT().GetByID(gomock.Any(), int64(55)).Return(assignedDelivery(), nil)
		f.orders.EXPECT().GetByID(gomock.Any(), int64(1)).Return(readyOrder(), nil)

		_, err := f.storage.GetTracking(ctx, storage.Actor{UserID: 11, Role: storage.RoleCustomer}, 55)
		assert.ErrorIs(t, err, storage.ErrForbidden)
	})

	t.Run("unknown delivery", func(t *testing.T) {
		f := newFixture(t)
		f.deliveries.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, repository.ErrObjectNotFound)

		_, err := f.storage.GetTracking(ctx, adminActor, 404)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestFlagStaleDeliveries(t *testing.T) {
	ctx := context.Background()

	t.Run("flags and notifies", func(t *testing.T) {
		f := newFixture(t)
		f.deliveries.EXPECT().FlagStale(gomock.Any(), fixedNow.Add(-10*time.Minute)).
			Return([]*repository.Delivery{assignedDelivery()}, nil)
		f.orders.EXPECT().GetByID(gomock.Any(), int64(1)).Return(readyOrder(), nil)
		f.stores.EXPECT().GetByID(gomock.Any(), int64(3)).Return(lahanStore(), nil)
		f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e repository.DeliveryEvent) error {
				assert.Equal(t, repository.EventPartnerUnreachable, e.Type)
				assert.Equal(t, int64(7), e.PartnerID)
				assert.Equal(t, []repository.Recipient{
					{Role: storage.RoleAdmin},
					{UserID: 10, Role: storage.RoleCustomer},
					{UserID: 30, Role: storage.RoleStoreOwner},
				}, e.Recipients)
				return nil
			})

		n, err := f.storage.FlagStaleDeliveries(ctx, 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, f.logs.FilterMessage("delivery partner unreachable").Len())
	})

	t.Run("nothing stale", func(t *testing.T) {
		f := newFixture(t)
		f.deliveries.EXPECT().FlagStale(gomock.Any(), gomock.Any()).Return(nil, nil)

		n, err := f.storage.FlagStaleDeliveries(ctx, 10*time.Minute)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func ptrTo(s string) *string { return &s }
