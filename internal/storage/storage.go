package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/geo"
	"github.com/sirahabazaar/delivery/internal/metrics"
	"github.com/sirahabazaar/delivery/internal/repository"
)

// Repositories groups the data access the delivery workflow needs.
type Repositories struct {
	Orders          OrderRepository
	OrderHistory    OrderHistoryRepository
	Stores          StoreRepository
	Partners        PartnerRepository
	Deliveries      DeliveryRepository
	DeliveryHistory DeliveryHistoryRepository
	Locations       LocationRepository
	Zones           ZoneRepository
}

type Options struct {
	DefaultDeliveryFee float64
	// RouteLimit caps the number of samples returned by the tracking view.
	RouteLimit int
	Now        func() time.Time
}

type PostgresStorage struct {
	db       db.DB
	repos    Repositories
	zones    ZoneCache
	notifier Notifier
	logger   *zap.Logger

	defaultFee float64
	routeLimit int
	now        func() time.Time
}

func NewPostgresStorage(
	database db.DB,
	repos Repositories,
	zones ZoneCache,
	notifier Notifier,
	logger *zap.Logger,
	opts Options,
) *PostgresStorage {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RouteLimit <= 0 {
		opts.RouteLimit = 100
	}
	return &PostgresStorage{
		db:         database,
		repos:      repos,
		zones:      zones,
		notifier:   notifier,
		logger:     logger,
		defaultFee: opts.DefaultDeliveryFee,
		routeLimit: opts.RouteLimit,
		now:        opts.Now,
	}
}

func (s *PostgresStorage) timestamp() time.Time {
	return s.now().UTC()
}

// estimate never fails; missing coordinates yield the default fee.
func (s *PostgresStorage) estimate(fromLat, fromLon, toLat, toLon *float64) geo.Estimate {
	from, ok := geo.PointFrom(fromLat, fromLon)
	if !ok {
		return geo.UnknownEstimate(s.defaultFee)
	}
	to, ok := geo.PointFrom(toLat, toLon)
	if !ok {
		return geo.UnknownEstimate(s.defaultFee)
	}
	return geo.EstimateTrip(from, to, s.zones.Zones(), s.defaultFee)
}

// notify is best-effort: failures are logged and counted, never returned.
func (s *PostgresStorage) notify(ctx context.Context, event repository.DeliveryEvent) {
	if len(event.Recipients) == 0 {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.timestamp()
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues(string(event.Type)).Inc()
		s.logger.Warn("notification dispatch failed",
			zap.String("event", string(event.Type)),
			zap.Int64("order_id", event.OrderID),
			zap.Int64("delivery_id", event.DeliveryID),
			zap.Error(err),
		)
	}
}

// operationError counts unexpected failures; domain errors pass through
// uncounted.
func (s *PostgresStorage) operationError(operation string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
	s.logger.Error("operation failed", zap.String("operation", operation), zap.Error(err))
	return err
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrForbidden, ErrInvalidTransition, ErrTerminalState,
		ErrOrderNotAvailable, ErrAlreadyClaimed, ErrPartnerNotEligible,
		ErrNotAssignedPartner, ErrDeliveryNotActive, ErrPartnerExists, ErrPartnerBusy,
		repository.ErrObjectNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}
