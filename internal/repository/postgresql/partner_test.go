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

func TestPartnerRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		partner := &repository.DeliveryPartner{
			UserID:        70,
			VehicleType:   "motorcycle",
			VehicleNumber: "Ko 1 Pa 2345",
			LicenseNumber: "L-778",
			Status:        "pending",
			IsAvailable:   true,
		}

		mockDB.EXPECT().Get(
			gomock.Any(),
			gomock.Eq(partner),
			gomock.Any(),
			gomock.Eq(partner.UserID),
			gomock.Eq(partner.VehicleType),
			gomock.Eq(partner.VehicleNumber),
			gomock.Eq(partner.LicenseNumber),
			gomock.Eq(partner.Status),
			gomock.Eq(partner.IsAvailable),
		).DoAndReturn(func(_ context.Context, dest *repository.DeliveryPartner, _ string, _ ...interface{}) error {
			dest.ID = 7
			dest.CreatedAt = changed
			return nil
		})

		err := repo.Create(ctx, partner)
		require.NoError(t, err)
		assert.Equal(t, int64(7), partner.ID)
		assert.Equal(t, changed, partner.CreatedAt)
	})

	t.Run("second profile for the same user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "delivery_partners_user_id_key"})

		err := repo.Create(ctx, &repository.DeliveryPartner{UserID: 70})
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("other database errors are wrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		expectedErr := &pgconn.PgError{Code: "23503"}
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(expectedErr)

		err := repo.Create(ctx, &repository.DeliveryPartner{UserID: 70})
		assert.ErrorIs(t, err, expectedErr)
		assert.NotErrorIs(t, err, repository.ErrAlreadyExists)
	})
}

func TestPartnerRepo_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("by user id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		expected := repository.DeliveryPartner{ID: 7, UserID: 70, Status: "approved", IsAvailable: true}
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(70))).SetArg(1, expected).Return(nil)

		partner, err := repo.GetByUserID(ctx, 70)
		require.NoError(t, err)
		assert.Equal(t, &expected, partner)
	})

	t.Run("missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgx.ErrNoRows)

		partner, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, partner)
	})

	t.Run("locked read in transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewPartnerRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(70))).
			DoAndReturn(func(_ context.Context, dest *repository.DeliveryPartner, query string, _ ...interface{}) error {
				assert.Contains(t, query, "FOR UPDATE")
				dest.ID = 7
				return nil
			})

		partner, err := repo.GetByUserIDTx(ctx, mockTx, 70)
		require.NoError(t, err)
		assert.Equal(t, int64(7), partner.ID)
	})
}

func TestPartnerRepo_List(t *testing.T) {
	ctx := context.Background()

	t.Run("filtered by status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		expected := []*repository.DeliveryPartner{{ID: 9, Status: "pending"}}
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("pending")).SetArg(1, expected).Return(nil)

		partners, err := repo.List(ctx, "pending")
		require.NoError(t, err)
		assert.Equal(t, expected, partners)
	})

	t.Run("unfiltered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, query string, args ...interface{}) error {
				assert.NotContains(t, query, "WHERE")
				assert.Empty(t, args)
				return nil
			})

		_, err := repo.List(ctx, "")
		require.NoError(t, err)
	})

	t.Run("eligible", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).Return(expectedErr)

		_, err := repo.ListEligible(ctx)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestPartnerRepo_Updates(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq("approved"), gomock.Nil(), gomock.Eq(&changed), gomock.Eq(int64(7)),
		).Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.UpdateStatus(ctx, 7, "approved", nil, &changed))
	})

	t.Run("approve missing partner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewPartnerRepo(mockDB)

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		assert.ErrorIs(t, repo.UpdateStatus(ctx, 404, "approved", nil, &changed), repository.ErrObjectNotFound)
	})

	t.Run("availability", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewPartnerRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(false), gomock.Eq(int64(7))).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.SetAvailabilityTx(ctx, mockTx, 7, false))
	})

	t.Run("complete delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewPartnerRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(7))).
			DoAndReturn(func(_ context.Context, query string, _ ...interface{}) (pgconn.CommandTag, error) {
				assert.Contains(t, query, "total_deliveries = total_deliveries + 1")
				assert.Contains(t, query, "is_available = true")
				return pgconn.CommandTag("UPDATE 1"), nil
			})

		assert.NoError(t, repo.CompleteDeliveryTx(ctx, mockTx, 7))
	})

	t.Run("location", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewPartnerRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(26.6603), gomock.Eq(86.2064), gomock.Eq(int64(7))).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.UpdateLocationTx(ctx, mockTx, 7, 26.6603, 86.2064))
	})
}
