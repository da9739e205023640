package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

func TestZoneAdministration(t *testing.T) {
	ctx := context.Background()
	zone := storage.Zone{Name: "city", MinDistance: 0, MaxDistance: 5, BaseFee: 30, PerKmRate: 10, IsActive: true}

	t.Run("create updates the cache", func(t *testing.T) {
		f := newFixture(t)
		f.zoneRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, z *repository.DeliveryZone) error {
				z.ID = 4
				return nil
			})
		f.zones.EXPECT().Set(gomock.Any()).Do(func(z *repository.DeliveryZone) {
			assert.Equal(t, int64(4), z.ID)
		})

		created, err := f.storage.CreateZone(ctx, adminActor, zone)
		require.NoError(t, err)
		assert.Equal(t, int64(4), created.ID)
	})

	t.Run("delete evicts from the cache", func(t *testing.T) {
		f := newFixture(t)
		f.zoneRepo.EXPECT().Delete(gomock.Any(), int64(4)).Return(nil)
		f.zones.EXPECT().Delete(int64(4))

		require.NoError(t, f.storage.DeleteZone(ctx, adminActor, 4))
	})

	t.Run("update of missing zone leaves the cache alone", func(t *testing.T) {
		f := newFixture(t)
		z := zone
		z.ID = 404
		f.zoneRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(repository.ErrObjectNotFound)

		_, err := f.storage.UpdateZone(ctx, adminActor, z)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := newFixture(t)
		bad := zone
		bad.MinDistance = 10
		_, err := f.storage.CreateZone(ctx, adminActor, bad)
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("non admin", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.storage.CreateZone(ctx, ownerActor, zone)
		assert.ErrorIs(t, err, storage.ErrForbidden)
		assert.ErrorIs(t, f.storage.DeleteZone(ctx, partnerActor, 1), storage.ErrForbidden)
	})

	t.Run("list reads active zones", func(t *testing.T) {
		f := newFixture(t)
		f.zoneRepo.EXPECT().List(gomock.Any(), true).Return([]*repository.DeliveryZone{{ID: 1, Name: "city", IsActive: true}}, nil)

		zones, err := f.storage.ListZones(ctx)
		require.NoError(t, err)
		require.Len(t, zones, 1)
		assert.Equal(t, "city", zones[0].Name)
	})
}

func TestEstimateFee(t *testing.T) {
	t.Run("known coordinates", func(t *testing.T) {
		f := newFixture(t)
		f.zones.EXPECT().Zones().Return(farZone())

		est := f.storage.EstimateFee("26.6603", "86.2064", "26.7201", "86.4928")
		require.NotNil(t, est.DistanceKm)
		assert.Equal(t, 29.22, *est.DistanceKm)
		assert.Equal(t, 246.1, est.Fee)
		assert.Equal(t, "1-2 hours", est.EstimatedTime)
	})

	t.Run("malformed input falls back", func(t *testing.T) {
		f := newFixture(t)
		for _, in := range [][4]string{
			{"abc", "86.2", "26.7", "86.4"},
			{"26.6", "", "26.7", "86.4"},
			{"26.6", "86.2", "95", "86.4"},
		} {
			est := f.storage.EstimateFee(in[0], in[1], in[2], in[3])
			assert.Nil(t, est.DistanceKm)
			assert.Equal(t, 30.0, est.Fee)
			assert.Equal(t, "unknown", est.EstimatedTime)
		}
	})
}
