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

func TestRegisterPartner(t *testing.T) {
	ctx := context.Background()
	reg := storage.PartnerRegistration{VehicleType: "motorcycle", VehicleNumber: " Ko 1 Pa 2345 ", LicenseNumber: "L-778"}

	t.Run("created pending", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *repository.DeliveryPartner) error {
				assert.Equal(t, int64(70), p.UserID)
				assert.Equal(t, storage.PartnerPending, p.Status)
				assert.Equal(t, "Ko 1 Pa 2345", p.VehicleNumber)
				p.ID = 7
				return nil
			})

		partner, err := f.storage.RegisterPartner(ctx, partnerActor, reg)
		require.NoError(t, err)
		assert.Equal(t, int64(7), partner.ID)
		assert.False(t, partner.Eligible)
	})

	t.Run("second registration", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrAlreadyExists)

		_, err := f.storage.RegisterPartner(ctx, partnerActor, reg)
		assert.ErrorIs(t, err, storage.ErrPartnerExists)
	})

	t.Run("missing vehicle details", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.storage.RegisterPartner(ctx, partnerActor, storage.PartnerRegistration{VehicleType: "bicycle"})
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("wrong role", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.storage.RegisterPartner(ctx, customerActor, reg)
		assert.ErrorIs(t, err, storage.ErrForbidden)
	})
}

func TestPartnerApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().UpdateStatus(gomock.Any(), int64(7), storage.PartnerApproved, nil, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ string, _ *string, approvedAt *time.Time) error {
				assert.Equal(t, fixedNow, *approvedAt)
				return nil
			})
		f.partners.EXPECT().GetByID(gomock.Any(), int64(7)).Return(approvedPartner(), nil)

		partner, err := f.storage.ApprovePartner(ctx, adminActor, 7)
		require.NoError(t, err)
		assert.True(t, partner.Eligible)
	})

	t.Run("reject needs a reason", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.storage.RejectPartner(ctx, adminActor, 7, "  ")
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("reject", func(t *testing.T) {
		f := newFixture(t)
		reason := "license expired"
		f.partners.EXPECT().UpdateStatus(gomock.Any(), int64(7), storage.PartnerRejected, &reason, nil).Return(nil)
		f.partners.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&repository.DeliveryPartner{ID: 7, Status: storage.PartnerRejected, RejectionReason: &reason}, nil)

		partner, err := f.storage.RejectPartner(ctx, adminActor, 7, reason)
		require.NoError(t, err)
		assert.Equal(t, storage.PartnerRejected, partner.Status)
	})

	t.Run("only admins", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.storage.ApprovePartner(ctx, partnerActor, 7)
		assert.ErrorIs(t, err, storage.ErrForbidden)
		_, err = f.storage.ListPartners(ctx, ownerActor, "")
		assert.ErrorIs(t, err, storage.ErrForbidden)
	})

	t.Run("list by status", func(t *testing.T) {
		f := newFixture(t)
		f.partners.EXPECT().List(gomock.Any(), storage.PartnerPending).
			Return([]*repository.DeliveryPartner{{ID: 9, Status: storage.PartnerPending}}, nil)

		partners, err := f.storage.ListPartners(ctx, adminActor, storage.PartnerPending)
		require.NoError(t, err)
		assert.Len(t, partners, 1)

		_, err = f.storage.ListPartners(ctx, adminActor, "retired")
		assert.ErrorIs(t, err, storage.ErrValidation)
	})
}

func TestSetAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("going offline", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(true)
		f.partners.EXPECT().GetByUserIDTx(gomock.Any(), f.tx, int64(70)).Return(approvedPartner(), nil)
		f.partners.EXPECT().SetAvailabilityTx(gomock.Any(), f.tx, int64(7), false).Return(nil)

		partner, err := f.storage.SetAvailability(ctx, partnerActor, false)
		require.NoError(t, err)
		assert.False(t, partner.IsAvailable)
	})

	t.Run("cannot go online mid delivery", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(false)
		busy := approvedPartner()
		busy.IsAvailable = false
		f.partners.EXPECT().GetByUserIDTx(gomock.Any(), f.tx, int64(70)).Return(busy, nil)
		f.deliveries.EXPECT().ListByPartnerID(gomock.Any(), int64(7), true).Return([]*repository.Delivery{assignedDelivery()}, nil)

		_, err := f.storage.SetAvailability(ctx, partnerActor, true)
		assert.ErrorIs(t, err, storage.ErrPartnerBusy)
	})
}

func TestReassignDelivery(t *testing.T) {
	ctx := context.Background()
	replacement := &repository.DeliveryPartner{ID: 8, UserID: 80, Status: storage.PartnerApproved, IsAvailable: true}

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(true)
		f.deliveries.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(55)).Return(assignedDelivery(), nil)
		f.partners.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(7)).Return(approvedPartner(), nil)
		f.partners.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(8)).Return(replacement, nil)
		f.deliveries.EXPECT().ReassignTx(gomock.Any(), f.tx, int64(55), int64(8), fixedNow).Return(nil)
		f.partners.EXPECT().SetAvailabilityTx(gomock.Any(), f.tx, int64(8), false).Return(nil)
		f.partners.EXPECT().SetAvailabilityTx(gomock.Any(), f.tx, int64(7), true).Return(nil)
		f.deliveryHistory.EXPECT().CreateTx(gomock.Any(), f.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, e *repository.DeliveryStatusEntry) error {
				assert.Contains(t, *e.Description, "Reassigned")
				return nil
			})
		f.orders.EXPECT().GetByID(gomock.Any(), int64(1)).Return(readyOrder(), nil)
		f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e repository.DeliveryEvent) error {
				assert.Equal(t, repository.EventDeliveryReassigned, e.Type)
				assert.Len(t, e.Recipients, 3)
				return nil
			})

		delivery, err := f.storage.ReassignDelivery(ctx, adminActor, 55, 8)
		require.NoError(t, err)
		assert.Equal(t, int64(8), *delivery.DeliveryPartnerID)
	})

	t.Run("target not eligible", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(false)
		f.deliveries.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(55)).Return(assignedDelivery(), nil)
		f.partners.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(7)).Return(approvedPartner(), nil)
		f.partners.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(9)).
			Return(&repository.DeliveryPartner{ID: 9, Status: storage.PartnerPending, IsAvailable: true}, nil)

		_, err := f.storage.ReassignDelivery(ctx, adminActor, 55, 9)
		assert.ErrorIs(t, err, storage.ErrPartnerNotEligible)
	})

	t.Run("finished delivery", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(false)
		done := assignedDelivery()
		done.Status = storage.DeliveryCancelled
		f.deliveries.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(55)).Return(done, nil)

		_, err := f.storage.ReassignDelivery(ctx, adminActor, 55, 8)
		assert.ErrorIs(t, err, storage.ErrDeliveryNotActive)
	})

	t.Run("same partner", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(false)
		f.deliveries.EXPECT().GetByIDTx(gomock.Any(), f.tx, int64(55)).Return(assignedDelivery(), nil)

		_, err := f.storage.ReassignDelivery(ctx, adminActor, 55, 7)
		assert.ErrorIs(t, err, storage.ErrValidation)
	})
}
