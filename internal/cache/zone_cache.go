package cache

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/geo"
	"github.com/sirahabazaar/delivery/internal/metrics"
	"github.com/sirahabazaar/delivery/internal/repository"
)

type ZoneRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*repository.DeliveryZone, error)
}

// ZoneCache holds active delivery zones for fee estimates. Only active zones
// are kept; setting an inactive zone evicts it.
type ZoneCache struct {
	mu     sync.RWMutex
	cache  map[int64]geo.Zone
	repo   ZoneRepository
	logger *zap.Logger
}

func NewZoneCache(repo ZoneRepository, logger *zap.Logger) *ZoneCache {
	return &ZoneCache{
		cache:  make(map[int64]geo.Zone),
		repo:   repo,
		logger: logger,
	}
}

func (c *ZoneCache) LoadInitialData(ctx context.Context) error {
	c.logger.Info("loading delivery zones into cache")
	zones, err := c.repo.List(ctx, true)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[int64]geo.Zone, len(zones))
	for _, z := range zones {
		c.cache[z.ID] = toGeoZone(z)
	}
	metrics.DeliveryZoneCacheItems.Set(float64(len(c.cache)))
	c.logger.Info("delivery zones loaded", zap.Int("count", len(c.cache)))
	return nil
}

// Zones returns a copy ordered by MinDistance.
func (c *ZoneCache) Zones() []geo.Zone {
	c.mu.RLock()
	out := make([]geo.Zone, 0, len(c.cache))
	for _, z := range c.cache {
		out = append(out, z)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].MinDistance == out[j].MinDistance {
			return out[i].ID < out[j].ID
		}
		return out[i].MinDistance < out[j].MinDistance
	})
	return out
}

func (c *ZoneCache) Set(zone *repository.DeliveryZone) {
	if !zone.IsActive {
		c.Delete(zone.ID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[zone.ID] = toGeoZone(zone)
	metrics.DeliveryZoneCacheItems.Set(float64(len(c.cache)))
	c.logger.Debug("zone cached", zap.Int64("zone_id", zone.ID), zap.String("name", zone.Name))
}

func (c *ZoneCache) Delete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[id]; found {
		delete(c.cache, id)
		metrics.DeliveryZoneCacheItems.Set(float64(len(c.cache)))
		c.logger.Debug("zone evicted", zap.Int64("zone_id", id))
	}
}

func toGeoZone(z *repository.DeliveryZone) geo.Zone {
	return geo.Zone{
		ID:          z.ID,
		Name:        z.Name,
		MinDistance: z.MinDistance,
		MaxDistance: z.MaxDistance,
		BaseFee:     z.BaseFee,
		PerKmRate:   z.PerKmRate,
	}
}
