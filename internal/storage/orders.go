package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/metrics"
	"github.com/sirahabazaar/delivery/internal/repository"
)

// ListAvailableOrders returns ready_for_pickup orders nobody has claimed yet.
// Partners see the list only while eligible, checked against a fresh read.
func (s *PostgresStorage) ListAvailableOrders(ctx context.Context, actor Actor) ([]AvailableOrder, error) {
	switch actor.Role {
	case RoleAdmin:
	case RoleDeliveryPartner:
		partner, err := s.repos.Partners.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrObjectNotFound) {
				return nil, ErrPartnerNotEligible
			}
			return nil, s.operationError("list_available_orders", err)
		}
		if !IsEligible(partner) {
			return nil, ErrPartnerNotEligible
		}
	default:
		return nil, ErrForbidden
	}

	orders, err := s.repos.Orders.ListAvailable(ctx)
	if err != nil {
		return nil, s.operationError("list_available_orders", err)
	}

	result := make([]AvailableOrder, 0, len(orders))
	for _, o := range orders {
		result = append(result, AvailableOrder{
			OrderID:             o.ID,
			StoreID:             o.StoreID,
			StoreName:           o.StoreName,
			PickupAddress:       o.StoreAddress,
			DeliveryAddress:     o.ShippingAddress,
			CustomerName:        o.CustomerName,
			Phone:               o.Phone,
			TotalAmount:         o.TotalAmount,
			PaymentMethod:       o.PaymentMethod,
			SpecialInstructions: o.SpecialInstructions,
			Estimate:            s.estimate(o.StoreLatitude, o.StoreLongitude, o.Latitude, o.Longitude),
			CreatedAt:           o.CreatedAt,
		})
	}
	return result, nil
}

// ClaimOrder assigns a ready_for_pickup order to the calling partner. Order
// and partner rows are locked for the whole check-and-create, and the partial
// unique index on active deliveries backs it up.
func (s *PostgresStorage) ClaimOrder(ctx context.Context, actor Actor, orderID int64) (*Delivery, error) {
	if actor.Role != RoleDeliveryPartner {
		return nil, ErrForbidden
	}
	log := s.logger.With(zap.Int64("order_id", orderID), zap.Int64("user_id", actor.UserID))

	var (
		delivery *repository.Delivery
		order    *repository.Order
		store    *repository.Store
		partner  *repository.DeliveryPartner
	)
	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		var err error
		// Order before partner, the same order UpdateOrderStatus takes its locks in.
		order, err = s.repos.Orders.GetByIDTx(ctx, tx, orderID)
		if err != nil {
			return err
		}

		partner, err = s.repos.Partners.GetByUserIDTx(ctx, tx, actor.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrObjectNotFound) {
				return ErrPartnerNotEligible
			}
			return fmt.Errorf("failed to lock partner: %w", err)
		}
		if !IsEligible(partner) {
			return ErrPartnerNotEligible
		}
		if order.Status != StatusReadyForPickup {
			return ErrOrderNotAvailable
		}

		active, err := s.repos.Deliveries.GetActiveByOrderIDTx(ctx, tx, orderID)
		if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
			return fmt.Errorf("failed to check active delivery: %w", err)
		}
		if active != nil {
			return ErrAlreadyClaimed
		}

		store, err = s.repos.Stores.GetByIDTx(ctx, tx, order.StoreID)
		if err != nil {
			return fmt.Errorf("failed to load store: %w", err)
		}

		est := s.estimate(store.Latitude, store.Longitude, order.Latitude, order.Longitude)
		now := s.timestamp()
		delivery = &repository.Delivery{
			OrderID:           order.ID,
			DeliveryPartnerID: &partner.ID,
			Status:            DeliveryAssigned,
			DeliveryFee:       est.Fee,
			PickupAddress:     store.Address,
			DeliveryAddress:   order.ShippingAddress,
			EstimatedDistance: est.DistanceKm,
			EstimatedTime:     &est.EstimatedTime,
			AssignedAt:        &now,
		}
		if err := s.repos.Deliveries.CreateTx(ctx, tx, delivery); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return ErrAlreadyClaimed
			}
			return err
		}

		if err := s.repos.Partners.SetAvailabilityTx(ctx, tx, partner.ID, false); err != nil {
			return fmt.Errorf("failed to mark partner busy: %w", err)
		}

		return s.repos.DeliveryHistory.CreateTx(ctx, tx, &repository.DeliveryStatusEntry{
			DeliveryID:  delivery.ID,
			Status:      DeliveryAssigned,
			Description: ptr("Order claimed by delivery partner"),
			UpdatedBy:   &actor.UserID,
			ChangedAt:   now,
		})
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyClaimed) || errors.Is(err, ErrOrderNotAvailable) {
			metrics.DeliveryClaimConflictsTotal.Inc()
			log.Warn("claim rejected", zap.Error(err))
		}
		return nil, s.operationError("claim_order", err)
	}

	metrics.DeliveryClaimsTotal.Inc()
	log.Info("order claimed", zap.Int64("delivery_id", delivery.ID), zap.Int64("partner_id", partner.ID))

	s.notify(ctx, repository.DeliveryEvent{
		Type:       repository.EventDeliveryAssigned,
		OrderID:    order.ID,
		DeliveryID: delivery.ID,
		PartnerID:  partner.ID,
		NewStatus:  DeliveryAssigned,
		Message:    "A delivery partner has been assigned to your order",
		Recipients: []repository.Recipient{
			{UserID: order.CustomerID, Role: RoleCustomer},
			{UserID: store.OwnerID, Role: RoleStoreOwner},
			{UserID: partner.UserID, Role: RoleDeliveryPartner},
		},
	})

	out := toDelivery(delivery)
	return &out, nil
}

// UpdateOrderStatus moves an order through its lifecycle and keeps the active
// delivery, its partner and both history logs in step within one transaction.
func (s *PostgresStorage) UpdateOrderStatus(ctx context.Context, actor Actor, orderID int64, newStatus string) (*StatusChange, error) {
	if !IsKnownStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	var (
		order    *repository.Order
		store    *repository.Store
		delivery *repository.Delivery
		partner  *repository.DeliveryPartner
		change   StatusChange
	)
	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		var err error
		order, err = s.repos.Orders.GetByIDTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if IsTerminal(order.Status) {
			return ErrTerminalState
		}

		store, err = s.repos.Stores.GetByIDTx(ctx, tx, order.StoreID)
		if err != nil {
			return fmt.Errorf("failed to load store: %w", err)
		}
		delivery, err = s.repos.Deliveries.GetActiveByOrderIDTx(ctx, tx, orderID)
		if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
			return fmt.Errorf("failed to load active delivery: %w", err)
		}
		if delivery != nil && delivery.DeliveryPartnerID != nil {
			partner, err = s.repos.Partners.GetByIDTx(ctx, tx, *delivery.DeliveryPartnerID)
			if err != nil {
				return fmt.Errorf("failed to load partner: %w", err)
			}
		}

		if err := authorizeTransition(actor, newStatus, store, partner); err != nil {
			return err
		}
		if !CanTransition(order.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
		}
		if isPartnerDriven(newStatus) && partner == nil {
			return ErrDeliveryNotActive
		}

		now := s.timestamp()
		if err := s.repos.Orders.UpdateStatusTx(ctx, tx, order.ID, newStatus, now); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if err := s.repos.OrderHistory.CreateTx(ctx, tx, &repository.OrderHistoryEntry{
			OrderID:   order.ID,
			Status:    newStatus,
			ChangedBy: &actor.UserID,
			ChangedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to add order history entry: %w", err)
		}

		change = StatusChange{OrderID: order.ID, OldStatus: order.Status, NewStatus: newStatus}
		if delivery == nil {
			return nil
		}
		change.DeliveryID = &delivery.ID
		return s.advanceDelivery(ctx, tx, actor, delivery, partner, newStatus)
	})
	if err != nil {
		if isDomainError(err) {
			s.logger.Warn("status change rejected",
				zap.Int64("order_id", orderID),
				zap.String("status", newStatus),
				zap.String("role", actor.Role),
				zap.Error(err),
			)
		}
		return nil, s.operationError("update_order_status", err)
	}

	metrics.OrderStatusTransitionsTotal.WithLabelValues(newStatus).Inc()
	s.logger.Info("order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("old_status", change.OldStatus),
		zap.String("new_status", newStatus),
	)

	s.notifyStatusChange(ctx, order, store, delivery, partner, change)
	return &change, nil
}

func (s *PostgresStorage) advanceDelivery(
	ctx context.Context,
	tx db.Tx,
	actor Actor,
	delivery *repository.Delivery,
	partner *repository.DeliveryPartner,
	orderStatus string,
) error {
	status, ok := deliveryStatusFor(orderStatus)
	if !ok {
		return nil
	}

	now := s.timestamp()
	delivery.Status = status
	switch status {
	case DeliveryPickedUp:
		delivery.PickedUpAt = &now
	case DeliveryDelivered:
		delivery.DeliveredAt = &now
	}
	if err := s.repos.Deliveries.UpdateStatusTx(ctx, tx, delivery); err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}
	if err := s.repos.DeliveryHistory.CreateTx(ctx, tx, &repository.DeliveryStatusEntry{
		DeliveryID:  delivery.ID,
		Status:      status,
		Description: ptr(deliveryDescription(status)),
		UpdatedBy:   &actor.UserID,
		ChangedAt:   now,
	}); err != nil {
		return fmt.Errorf("failed to add delivery history entry: %w", err)
	}

	if partner == nil {
		return nil
	}
	switch status {
	case DeliveryDelivered:
		return s.repos.Partners.CompleteDeliveryTx(ctx, tx, partner.ID)
	case DeliveryCancelled:
		return s.repos.Partners.SetAvailabilityTx(ctx, tx, partner.ID, true)
	}
	return nil
}

func authorizeTransition(actor Actor, status string, store *repository.Store, partner *repository.DeliveryPartner) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleStoreOwner:
		if store.OwnerID != actor.UserID || !isStoreDriven(status) {
			return ErrForbidden
		}
		return nil
	case RoleDeliveryPartner:
		if !isPartnerDriven(status) {
			return ErrForbidden
		}
		if partner == nil || partner.UserID != actor.UserID {
			return ErrNotAssignedPartner
		}
		return nil
	}
	return ErrForbidden
}

func (s *PostgresStorage) notifyStatusChange(
	ctx context.Context,
	order *repository.Order,
	store *repository.Store,
	delivery *repository.Delivery,
	partner *repository.DeliveryPartner,
	change StatusChange,
) {
	event := repository.DeliveryEvent{
		Type:      repository.EventOrderStatusChanged,
		OrderID:   order.ID,
		OldStatus: change.OldStatus,
		NewStatus: change.NewStatus,
		Message:   statusMessage(change.NewStatus),
		Recipients: []repository.Recipient{
			{UserID: order.CustomerID, Role: RoleCustomer},
			{UserID: store.OwnerID, Role: RoleStoreOwner},
		},
	}
	if delivery != nil {
		event.DeliveryID = delivery.ID
	}
	if partner != nil {
		event.PartnerID = partner.ID
		event.Recipients = append(event.Recipients, repository.Recipient{UserID: partner.UserID, Role: RoleDeliveryPartner})
	}
	s.notify(ctx, event)

	switch {
	case change.NewStatus == StatusReadyForPickup:
		s.notifyEligiblePartners(ctx, order, store)
	case change.NewStatus == StatusCancelled && partner != nil:
		s.notify(ctx, repository.DeliveryEvent{
			Type:       repository.EventDeliveryCancelled,
			OrderID:    order.ID,
			DeliveryID: delivery.ID,
			PartnerID:  partner.ID,
			OldStatus:  change.OldStatus,
			NewStatus:  DeliveryCancelled,
			Message:    "The order you were delivering has been cancelled",
			Recipients: []repository.Recipient{{UserID: partner.UserID, Role: RoleDeliveryPartner}},
		})
	}
}

// notifyEligiblePartners offers a freshly ready order to every partner who
// is eligible right now.
func (s *PostgresStorage) notifyEligiblePartners(ctx context.Context, order *repository.Order, store *repository.Store) {
	partners, err := s.repos.Partners.ListEligible(ctx)
	if err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues(string(repository.EventOrderReady)).Inc()
		s.logger.Warn("failed to load eligible partners", zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}

	recipients := make([]repository.Recipient, 0, len(partners))
	for _, p := range partners {
		if IsEligible(p) {
			recipients = append(recipients, repository.Recipient{UserID: p.UserID, Role: RoleDeliveryPartner})
		}
	}
	s.notify(ctx, repository.DeliveryEvent{
		Type:       repository.EventOrderReady,
		OrderID:    order.ID,
		NewStatus:  StatusReadyForPickup,
		Message:    fmt.Sprintf("New order ready for pickup at %s", store.Name),
		Recipients: recipients,
	})
}

func statusMessage(status string) string {
	switch status {
	case StatusConfirmed:
		return "Your order has been confirmed"
	case StatusProcessing:
		return "Your order is being prepared"
	case StatusReadyForPickup:
		return "Your order is ready for pickup"
	case StatusPickedUp:
		return "Your order has been picked up"
	case StatusInTransit:
		return "Your order is on the way"
	case StatusDelivered:
		return "Your order has been delivered"
	case StatusCancelled:
		return "Your order has been cancelled"
	}
	return "Your order status changed to " + status
}

func deliveryDescription(status string) string {
	switch status {
	case DeliveryPickedUp:
		return "Order picked up from store"
	case DeliveryInTransit:
		return "Delivery in transit"
	case DeliveryDelivered:
		return "Order delivered to customer"
	case DeliveryCancelled:
		return "Delivery cancelled"
	}
	return status
}
