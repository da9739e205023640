package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type StaleFlagger interface {
	FlagStaleDeliveries(ctx context.Context, staleAfter time.Duration) (int, error)
}

// StaleMonitor periodically marks active deliveries whose partner stopped
// reporting location. It never changes order status.
type StaleMonitor struct {
	flagger    StaleFlagger
	staleAfter time.Duration
	interval   time.Duration
	logger     *zap.Logger
}

func NewStaleMonitor(flagger StaleFlagger, staleAfter, interval time.Duration, logger *zap.Logger) *StaleMonitor {
	return &StaleMonitor{
		flagger:    flagger,
		staleAfter: staleAfter,
		interval:   interval,
		logger:     logger,
	}
}

func (m *StaleMonitor) Run(ctx context.Context) error {
	m.logger.Info("starting stale partner monitor",
		zap.Duration("stale_after", m.staleAfter),
		zap.Duration("interval", m.interval),
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			m.logger.Info("stale partner monitor stopping")
			return nil
		}
	}
}

// Check runs one pass and returns how many deliveries were newly flagged.
// Errors are logged; the next tick retries.
func (m *StaleMonitor) Check(ctx context.Context) int {
	flagged, err := m.flagger.FlagStaleDeliveries(ctx, m.staleAfter)
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Error("stale partner check failed", zap.Error(err))
		}
		return 0
	}
	if flagged > 0 {
		m.logger.Warn("deliveries flagged as partner unreachable", zap.Int("count", flagged))
	}
	return flagged
}
