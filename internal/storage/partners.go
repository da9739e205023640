package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
)

func (s *PostgresStorage) RegisterPartner(ctx context.Context, actor Actor, reg PartnerRegistration) (*Partner, error) {
	if actor.Role != RoleDeliveryPartner {
		return nil, ErrForbidden
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	p := &repository.DeliveryPartner{
		UserID:        actor.UserID,
		VehicleType:   strings.TrimSpace(reg.VehicleType),
		VehicleNumber: strings.TrimSpace(reg.VehicleNumber),
		LicenseNumber: strings.TrimSpace(reg.LicenseNumber),
		Status:        PartnerPending,
		IsAvailable:   true,
	}
	if err := s.repos.Partners.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrPartnerExists
		}
		return nil, s.operationError("register_partner", err)
	}

	s.logger.Info("delivery partner registered", zap.Int64("partner_id", p.ID), zap.Int64("user_id", p.UserID))
	out := toPartner(p)
	return &out, nil
}

// ListPartners returns the roster for admins. An empty status lists all.
func (s *PostgresStorage) ListPartners(ctx context.Context, actor Actor, status string) ([]Partner, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	switch status {
	case "", PartnerPending, PartnerApproved, PartnerRejected:
	default:
		return nil, fmt.Errorf("%w: unknown partner status %q", ErrValidation, status)
	}

	partners, err := s.repos.Partners.List(ctx, status)
	if err != nil {
		return nil, s.operationError("list_partners", err)
	}
	out := make([]Partner, 0, len(partners))
	for _, p := range partners {
		out = append(out, toPartner(p))
	}
	return out, nil
}

func (s *PostgresStorage) ApprovePartner(ctx context.Context, actor Actor, partnerID int64) (*Partner, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	now := s.timestamp()
	if err := s.repos.Partners.UpdateStatus(ctx, partnerID, PartnerApproved, nil, &now); err != nil {
		return nil, s.operationError("approve_partner", err)
	}
	s.logger.Info("delivery partner approved", zap.Int64("partner_id", partnerID), zap.Int64("admin_id", actor.UserID))
	return s.getPartner(ctx, partnerID)
}

func (s *PostgresStorage) RejectPartner(ctx context.Context, actor Actor, partnerID int64, reason string) (*Partner, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	if err := s.repos.Partners.UpdateStatus(ctx, partnerID, PartnerRejected, &reason, nil); err != nil {
		return nil, s.operationError("reject_partner", err)
	}
	s.logger.Info("delivery partner rejected", zap.Int64("partner_id", partnerID), zap.Int64("admin_id", actor.UserID))
	return s.getPartner(ctx, partnerID)
}

func (s *PostgresStorage) getPartner(ctx context.Context, partnerID int64) (*Partner, error) {
	p, err := s.repos.Partners.GetByID(ctx, partnerID)
	if err != nil {
		return nil, s.operationError("get_partner", err)
	}
	out := toPartner(p)
	return &out, nil
}

// SetAvailability toggles the calling partner's availability. Going online
// is refused while a delivery is still active.
func (s *PostgresStorage) SetAvailability(ctx context.Context, actor Actor, available bool) (*Partner, error) {
	if actor.Role != RoleDeliveryPartner {
		return nil, ErrForbidden
	}

	var partner *repository.DeliveryPartner
	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		var err error
		partner, err = s.repos.Partners.GetByUserIDTx(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		if available {
			active, err := s.repos.Deliveries.ListByPartnerID(ctx, partner.ID, true)
			if err != nil {
				return fmt.Errorf("failed to check active deliveries: %w", err)
			}
			if len(active) > 0 {
				return ErrPartnerBusy
			}
		}
		if err := s.repos.Partners.SetAvailabilityTx(ctx, tx, partner.ID, available); err != nil {
			return err
		}
		partner.IsAvailable = available
		return nil
	})
	if err != nil {
		return nil, s.operationError("set_availability", err)
	}

	out := toPartner(partner)
	return &out, nil
}

func (s *PostgresStorage) ListPartnerDeliveries(ctx context.Context, actor Actor, activeOnly bool) ([]Delivery, error) {
	if actor.Role != RoleDeliveryPartner {
		return nil, ErrForbidden
	}
	partner, err := s.repos.Partners.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, s.operationError("list_partner_deliveries", err)
	}
	deliveries, err := s.repos.Deliveries.ListByPartnerID(ctx, partner.ID, activeOnly)
	if err != nil {
		return nil, s.operationError("list_partner_deliveries", err)
	}
	out := make([]Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, toDelivery(d))
	}
	return out, nil
}

// ReassignDelivery is the admin override moving an active delivery to another
// eligible partner. The previous partner is freed and told.
func (s *PostgresStorage) ReassignDelivery(ctx context.Context, actor Actor, deliveryID, partnerID int64) (*Delivery, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var (
		delivery *repository.Delivery
		previous *repository.DeliveryPartner
		target   *repository.DeliveryPartner
	)
	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		var err error
		delivery, err = s.repos.Deliveries.GetByIDTx(ctx, tx, deliveryID)
		if err != nil {
			return err
		}
		if !IsActiveDelivery(delivery.Status) {
			return ErrDeliveryNotActive
		}
		if delivery.DeliveryPartnerID != nil && *delivery.DeliveryPartnerID == partnerID {
			return fmt.Errorf("%w: delivery is already assigned to partner %d", ErrValidation, partnerID)
		}

		if delivery.DeliveryPartnerID != nil {
			previous, err = s.repos.Partners.GetByIDTx(ctx, tx, *delivery.DeliveryPartnerID)
			if err != nil {
				return fmt.Errorf("failed to load current partner: %w", err)
			}
		}
		target, err = s.repos.Partners.GetByIDTx(ctx, tx, partnerID)
		if err != nil {
			return err
		}
		if !IsEligible(target) {
			return ErrPartnerNotEligible
		}

		now := s.timestamp()
		if err := s.repos.Deliveries.ReassignTx(ctx, tx, delivery.ID, target.ID, now); err != nil {
			return fmt.Errorf("failed to reassign delivery: %w", err)
		}
		if err := s.repos.Partners.SetAvailabilityTx(ctx, tx, target.ID, false); err != nil {
			return err
		}
		if previous != nil {
			if err := s.repos.Partners.SetAvailabilityTx(ctx, tx, previous.ID, true); err != nil {
				return err
			}
		}

		delivery.DeliveryPartnerID = &target.ID
		delivery.AssignedAt = &now
		delivery.PartnerUnreachable = false
		return s.repos.DeliveryHistory.CreateTx(ctx, tx, &repository.DeliveryStatusEntry{
			DeliveryID:  delivery.ID,
			Status:      delivery.Status,
			Description: ptr(fmt.Sprintf("Reassigned to delivery partner %d by admin", target.ID)),
			UpdatedBy:   &actor.UserID,
			ChangedAt:   now,
		})
	})
	if err != nil {
		return nil, s.operationError("reassign_delivery", err)
	}

	s.logger.Info("delivery reassigned",
		zap.Int64("delivery_id", delivery.ID),
		zap.Int64("partner_id", target.ID),
		zap.Int64("admin_id", actor.UserID),
	)

	recipients := []repository.Recipient{{UserID: target.UserID, Role: RoleDeliveryPartner}}
	if previous != nil {
		recipients = append(recipients, repository.Recipient{UserID: previous.UserID, Role: RoleDeliveryPartner})
	}
	if order, err := s.repos.Orders.GetByID(ctx, delivery.OrderID); err == nil {
		recipients = append(recipients, repository.Recipient{UserID: order.CustomerID, Role: RoleCustomer})
	}
	s.notify(ctx, repository.DeliveryEvent{
		Type:       repository.EventDeliveryReassigned,
		OrderID:    delivery.OrderID,
		DeliveryID: delivery.ID,
		PartnerID:  target.ID,
		NewStatus:  delivery.Status,
		Message:    "Your delivery has been reassigned to another partner",
		Recipients: recipients,
	})

	out := toDelivery(delivery)
	return &out, nil
}
