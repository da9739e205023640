package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/geo"
	"github.com/sirahabazaar/delivery/internal/metrics"
	"github.com/sirahabazaar/delivery/internal/repository"
)

// RecordLocation stores one GPS sample for an active delivery. The caller
// must be the partner named in the sample and assigned to the delivery.
func (s *PostgresStorage) RecordLocation(ctx context.Context, actor Actor, u LocationUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if actor.Role != RoleDeliveryPartner {
		return ErrForbidden
	}

	// The partner row is read without a lock so ingest takes row locks in
	// the same order as status updates: delivery first, then partner.
	partner, err := s.repos.Partners.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return ErrForbidden
		}
		return s.operationError("record_location", err)
	}
	if partner.ID != u.DeliveryPartnerID {
		return ErrNotAssignedPartner
	}

	err = db.InTx(ctx, s.db, func(tx db.Tx) error {
		delivery, err := s.repos.Deliveries.GetByIDTx(ctx, tx, u.DeliveryID)
		if err != nil {
			return err
		}
		if delivery.DeliveryPartnerID == nil || *delivery.DeliveryPartnerID != partner.ID {
			return ErrNotAssignedPartner
		}
		if !IsActiveDelivery(delivery.Status) {
			return ErrDeliveryNotActive
		}

		sample := &repository.LocationSample{
			DeliveryID:        u.DeliveryID,
			DeliveryPartnerID: partner.ID,
			Latitude:          u.Latitude,
			Longitude:         u.Longitude,
			Heading:           u.Heading,
			Speed:             u.Speed,
			Accuracy:          u.Accuracy,
			RecordedAt:        s.timestamp(),
		}
		if err := s.repos.Deliveries.UpdateLocationTx(ctx, tx, sample); err != nil {
			return fmt.Errorf("failed to update last location: %w", err)
		}
		if err := s.repos.Locations.CreateTx(ctx, tx, sample); err != nil {
			return fmt.Errorf("failed to append location sample: %w", err)
		}
		return s.repos.Partners.UpdateLocationTx(ctx, tx, partner.ID, u.Latitude, u.Longitude)
	})
	if err != nil {
		return s.operationError("record_location", err)
	}

	metrics.LocationSamplesTotal.Inc()
	s.logger.Debug("location recorded",
		zap.Int64("delivery_id", u.DeliveryID),
		zap.Int64("partner_id", partner.ID),
	)
	return nil
}

// GetTracking is visible to the order's customer, its store owner, the
// assigned partner and admins.
func (s *PostgresStorage) GetTracking(ctx context.Context, actor Actor, deliveryID int64) (*Tracking, error) {
	delivery, err := s.repos.Deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, s.operationError("get_tracking", err)
	}
	order, err := s.repos.Orders.GetByID(ctx, delivery.OrderID)
	if err != nil {
		return nil, s.operationError("get_tracking", err)
	}
	if err := s.authorizeTracking(ctx, actor, order, delivery); err != nil {
		return nil, err
	}

	history, err := s.repos.DeliveryHistory.GetByDeliveryID(ctx, deliveryID)
	if err != nil {
		return nil, s.operationError("get_tracking", err)
	}
	orderHistory, err := s.repos.OrderHistory.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, s.operationError("get_tracking", err)
	}
	samples, err := s.repos.Locations.ListRecent(ctx, deliveryID, s.routeLimit)
	if err != nil {
		return nil, s.operationError("get_tracking", err)
	}

	view := toDelivery(delivery)
	tracking := &Tracking{
		Delivery:        view,
		CurrentLocation: view.LastLocation,
		Route:           make([]Location, 0, len(samples)),
		StatusHistory:   make([]DeliveryStatusEntry, 0, len(history)),
		OrderHistory:    make([]OrderStatusEntry, 0, len(orderHistory)),
		EstimatedTime:   geo.UnknownETA,
	}
	// samples arrive newest first; the route is drawn oldest first.
	for i := len(samples) - 1; i >= 0; i-- {
		sm := samples[i]
		tracking.Route = append(tracking.Route, Location{
			Latitude:   sm.Latitude,
			Longitude:  sm.Longitude,
			Heading:    sm.Heading,
			Speed:      sm.Speed,
			Accuracy:   sm.Accuracy,
			RecordedAt: sm.RecordedAt,
		})
	}
	for _, h := range history {
		tracking.StatusHistory = append(tracking.StatusHistory, DeliveryStatusEntry{
			Status:      h.Status,
			Description: h.Description,
			UpdatedBy:   h.UpdatedBy,
			ChangedAt:   h.ChangedAt,
		})
	}
	for _, h := range orderHistory {
		tracking.OrderHistory = append(tracking.OrderHistory, OrderStatusEntry{
			Status:    h.Status,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		})
	}

	if view.LastLocation != nil {
		current := geo.Point{Lat: view.LastLocation.Latitude, Lon: view.LastLocation.Longitude}
		if dest, ok := geo.PointFrom(order.Latitude, order.Longitude); ok {
			if km, ok := geo.DistanceKm(current, dest); ok {
				tracking.RemainingDistanceKm = &km
				tracking.EstimatedTime = geo.EstimateDeliveryTime(km)
			}
		}
	} else if delivery.EstimatedTime != nil {
		tracking.EstimatedTime = *delivery.EstimatedTime
	}
	return tracking, nil
}

func (s *PostgresStorage) authorizeTracking(ctx context.Context, actor Actor, order *repository.Order, delivery *repository.Delivery) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleCustomer:
		if order.CustomerID == actor.UserID {
			return nil
		}
	case RoleStoreOwner:
		store, err := s.repos.Stores.GetByID(ctx, order.StoreID)
		if err != nil {
			return s.operationError("get_tracking", err)
		}
		if store.OwnerID == actor.UserID {
			return nil
		}
	case RoleDeliveryPartner:
		partner, err := s.repos.Partners.GetByUserID(ctx, actor.UserID)
		if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
			return s.operationError("get_tracking", err)
		}
		if partner != nil && delivery.DeliveryPartnerID != nil && *delivery.DeliveryPartnerID == partner.ID {
			return nil
		}
	}
	return ErrForbidden
}

// FlagStaleDeliveries marks active deliveries whose partner has been silent
// for longer than staleAfter and tells the interested parties. Order status
// is left alone. It returns the number of newly flagged deliveries.
func (s *PostgresStorage) FlagStaleDeliveries(ctx context.Context, staleAfter time.Duration) (int, error) {
	cutoff := s.timestamp().Add(-staleAfter)
	flagged, err := s.repos.Deliveries.FlagStale(ctx, cutoff)
	if err != nil {
		return 0, s.operationError("flag_stale_deliveries", err)
	}

	for _, d := range flagged {
		metrics.StaleDeliveriesFlaggedTotal.Inc()
		log := s.logger.With(zap.Int64("delivery_id", d.ID), zap.Int64("order_id", d.OrderID))
		log.Warn("delivery partner unreachable", zap.Timep("last_location_at", d.LastLocationAt))

		recipients := []repository.Recipient{{Role: RoleAdmin}}
		if order, err := s.repos.Orders.GetByID(ctx, d.OrderID); err == nil {
			recipients = append(recipients, repository.Recipient{UserID: order.CustomerID, Role: RoleCustomer})
			if store, err := s.repos.Stores.GetByID(ctx, order.StoreID); err == nil {
				recipients = append(recipients, repository.Recipient{UserID: store.OwnerID, Role: RoleStoreOwner})
			}
		} else {
			log.Warn("failed to resolve order for unreachable partner notice", zap.Error(err))
		}

		var partnerID int64
		if d.DeliveryPartnerID != nil {
			partnerID = *d.DeliveryPartnerID
		}
		s.notify(ctx, repository.DeliveryEvent{
			Type:       repository.EventPartnerUnreachable,
			OrderID:    d.OrderID,
			DeliveryID: d.ID,
			PartnerID:  partnerID,
			Message:    fmt.Sprintf("No location update from the delivery partner for over %s", staleAfter),
			Recipients: recipients,
		})
	}
	return len(flagged), nil
}
