package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/sirahabazaar/delivery/internal/db/mocks"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/repository/postgresql"
)

func TestDeliveryRepo_CreateTx(t *testing.T) {
	ctx := context.Background()
	partnerID := int64(7)
	distance := 29.22
	eta := "1-2 hours"

	newDelivery := func() *repository.Delivery {
		return &repository.Delivery{
			OrderID:           1,
			DeliveryPartnerID: &partnerID,
			Status:            "assigned",
			DeliveryFee:       246.1,
			PickupAddress:     "Lahan",
			DeliveryAddress:   "Rajbiraj",
			EstimatedDistance: &distance,
			EstimatedTime:     &eta,
			AssignedAt:        &changed,
		}
	}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewDeliveryRepo(mock_database.NewMockDB(ctrl))

		d := newDelivery()
		mockTx.EXPECT().Get(
			gomock.Any(),
			gomock.Eq(d),
			gomock.Any(),
			gomock.Eq(d.OrderID),
			gomock.Eq(d.DeliveryPartnerID),
			gomock.Eq(d.Status),
			gomock.Eq(d.DeliveryFee),
			gomock.Eq(d.PickupAddress),
			gomock.Eq(d.DeliveryAddress),
			gomock.Eq(d.EstimatedDistance),
			gomock.Eq(d.EstimatedTime),
			gomock.Eq(d.AssignedAt),
		).DoAndReturn(func(_ context.Context, dest *repository.Delivery, _ string, _ ...interface{}) error {
			dest.ID = 55
			return nil
		})

		require.NoError(t, repo.CreateTx(ctx, mockTx, d))
		assert.Equal(t, int64(55), d.ID)
	})

	t.Run("order already has an active delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewDeliveryRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "deliveries_active_order_uidx"})

		err := repo.CreateTx(ctx, mockTx, newDelivery())
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})
}

func TestDeliveryRepo_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("active by order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewDeliveryRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(1))).
			DoAndReturn(func(_ context.Context, dest *repository.Delivery, query string, _ ...interface{}) error {
				assert.Contains(t, query, "status NOT IN ('delivered', 'cancelled')")
				assert.Contains(t, query, "FOR UPDATE")
				dest.ID = 55
				dest.OrderID = 1
				return nil
			})

		d, err := repo.GetActiveByOrderIDTx(ctx, mockTx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(55), d.ID)
	})

	t.Run("no active delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewDeliveryRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgx.ErrNoRows)

		d, err := repo.GetActiveByOrderIDTx(ctx, mockTx, 1)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, d)
	})

	t.Run("by id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewDeliveryRepo(mockDB)

		expected := repository.Delivery{ID: 55, OrderID: 1, Status: "in_transit"}
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(55))).SetArg(1, expected).Return(nil)

		d, err := repo.GetByID(ctx, 55)
		require.NoError(t, err)
		assert.Equal(t, &expected, d)
	})

	t.Run("by partner, active only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewDeliveryRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(7))).
			DoAndReturn(func(_ context.Context, _ interface{}, query string, _ ...interface{}) error {
				assert.Contains(t, query, "status NOT IN")
				return nil
			})

		_, err := repo.ListByPartnerID(ctx, 7, true)
		require.NoError(t, err)
	})
}

func TestDeliveryRepo_Updates(t *testing.T) {
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewDeliveryRepo(mock_database.NewMockDB(ctrl))

		d := &repository.Delivery{ID: 55, Status: "picked_up", PickedUpAt: &changed}
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq("picked_up"), gomock.Eq(&changed), gomock.Nil(), gomock.Eq(int64(55)),
		).Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.UpdateStatusTx(ctx, mockTx, d))
	})

	t.Run("reassign finished delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewDeliveryRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(8)), gomock.Eq(changed), gomock.Eq(int64(55))).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.ReassignTx(ctx, mockTx, 55, 8, changed)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("location clears the unreachable flag", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewDeliveryRepo(mock_database.NewMockDB(ctrl))

		sample := &repository.LocationSample{DeliveryID: 55, Latitude: 26.66, Longitude: 86.2, RecordedAt: changed}
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq(26.66), gomock.Eq(86.2), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Eq(changed), gomock.Eq(int64(55)),
		).DoAndReturn(func(_ context.Context, query string, _ ...interface{}) (pgconn.CommandTag, error) {
			assert.Contains(t, query, "partner_unreachable = false")
			return pgconn.CommandTag("UPDATE 1"), nil
		})

		assert.NoError(t, repo.UpdateLocationTx(ctx, mockTx, sample))
	})

	t.Run("flag stale", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewDeliveryRepo(mockDB)

		expected := []*repository.Delivery{{ID: 55, PartnerUnreachable: true}}
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(changed)).
			SetArg(1, expected).
			Return(nil)

		flagged, err := repo.FlagStale(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, expected, flagged)
	})

	t.Run("flag stale error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewDeliveryRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(expectedErr)

		_, err := repo.FlagStale(ctx, changed)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestLocationRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("append", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewLocationRepo(mock_database.NewMockDB(ctrl))

		sample := &repository.LocationSample{DeliveryID: 55, DeliveryPartnerID: 7, Latitude: 26.66, Longitude: 86.2, RecordedAt: changed}
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq(int64(55)), gomock.Eq(int64(7)), gomock.Eq(26.66), gomock.Eq(86.2),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(changed),
		).Return(nil, nil)

		assert.NoError(t, repo.CreateTx(ctx, mockTx, sample))
	})

	t.Run("recent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewLocationRepo(mockDB)

		expected := []*repository.LocationSample{{ID: 2, DeliveryID: 55}, {ID: 1, DeliveryID: 55}}
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(55)), gomock.Eq(100)).
			SetArg(1, expected).
			Return(nil)

		samples, err := repo.ListRecent(ctx, 55, 100)
		require.NoError(t, err)
		assert.Equal(t, expected, samples)
	})
}
