package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/geo"
	"github.com/sirahabazaar/delivery/internal/repository"
)

// ListZones reads active zones from the database, not the cache, so the
// listing always reflects committed state.
func (s *PostgresStorage) ListZones(ctx context.Context) ([]Zone, error) {
	zones, err := s.repos.Zones.List(ctx, true)
	if err != nil {
		return nil, s.operationError("list_zones", err)
	}
	out := make([]Zone, 0, len(zones))
	for _, z := range zones {
		out = append(out, toZone(z))
	}
	return out, nil
}

func (s *PostgresStorage) CreateZone(ctx context.Context, actor Actor, zone Zone) (*Zone, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := zone.Validate(); err != nil {
		return nil, err
	}

	row := fromZone(zone)
	if err := s.repos.Zones.Create(ctx, row); err != nil {
		return nil, s.operationError("create_zone", err)
	}
	s.zones.Set(row)

	s.logger.Info("delivery zone created", zap.Int64("zone_id", row.ID), zap.String("name", row.Name))
	out := toZone(row)
	return &out, nil
}

func (s *PostgresStorage) UpdateZone(ctx context.Context, actor Actor, zone Zone) (*Zone, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := zone.Validate(); err != nil {
		return nil, err
	}

	row := fromZone(zone)
	if err := s.repos.Zones.Update(ctx, row); err != nil {
		return nil, s.operationError("update_zone", err)
	}
	s.zones.Set(row)

	s.logger.Info("delivery zone updated", zap.Int64("zone_id", row.ID))
	out := toZone(row)
	return &out, nil
}

func (s *PostgresStorage) DeleteZone(ctx context.Context, actor Actor, id int64) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.repos.Zones.Delete(ctx, id); err != nil {
		return s.operationError("delete_zone", err)
	}
	s.zones.Delete(id)

	s.logger.Info("delivery zone deleted", zap.Int64("zone_id", id))
	return nil
}

// EstimateFee takes raw query strings. Anything unparsable degrades to the
// default fee and an unknown time.
func (s *PostgresStorage) EstimateFee(fromLat, fromLon, toLat, toLon string) geo.Estimate {
	from, ok := geo.ParsePoint(fromLat, fromLon)
	if !ok {
		return geo.UnknownEstimate(s.defaultFee)
	}
	to, ok := geo.ParsePoint(toLat, toLon)
	if !ok {
		return geo.UnknownEstimate(s.defaultFee)
	}
	return geo.EstimateTrip(from, to, s.zones.Zones(), s.defaultFee)
}

func fromZone(z Zone) *repository.DeliveryZone {
	return &repository.DeliveryZone{
		ID:          z.ID,
		Name:        z.Name,
		MinDistance: z.MinDistance,
		MaxDistance: z.MaxDistance,
		BaseFee:     z.BaseFee,
		PerKmRate:   z.PerKmRate,
		IsActive:    z.IsActive,
	}
}
