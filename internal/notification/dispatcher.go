package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/repository"
)

// Dispatcher fans a consumed event out to its recipients. Push delivery is
// handled downstream; here each recipient gets one structured log line.
type Dispatcher struct {
	logger *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Handle decodes one broker message. A malformed payload is returned as an
// error so the consumer can log and skip it.
func (d *Dispatcher) Handle(ctx context.Context, payload []byte) error {
	var event repository.DeliveryEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode delivery event: %w", err)
	}
	if event.Type == "" {
		return errors.New("delivery event without type")
	}
	return d.Dispatch(ctx, event)
}

func (d *Dispatcher) Dispatch(ctx context.Context, event repository.DeliveryEvent) error {
	log := d.logger.With(
		zap.String("event", string(event.Type)),
		zap.Int64("order_id", event.OrderID),
	)
	if event.DeliveryID != 0 {
		log = log.With(zap.Int64("delivery_id", event.DeliveryID))
	}

	for _, r := range event.Recipients {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info("notification dispatched",
			zap.Int64("user_id", r.UserID),
			zap.String("role", r.Role),
			zap.String("message", event.Message),
		)
	}
	if len(event.Recipients) == 0 {
		log.Debug("event has no recipients")
	}
	return nil
}
