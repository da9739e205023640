package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

// OutboxNotifier stores events as outbox tasks; the publisher forwards them
// to the broker.
type OutboxNotifier struct {
	db    db.Querier
	repo  storage.OutboxTaskRepository
	topic string
}

func NewOutboxNotifier(q db.Querier, repo storage.OutboxTaskRepository, topic string) *OutboxNotifier {
	return &OutboxNotifier{db: q, repo: repo, topic: topic}
}

func (n *OutboxNotifier) Notify(ctx context.Context, event repository.DeliveryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	task := &repository.OutboxTask{
		Payload: payload,
		Topic:   n.topic,
	}
	if err := n.repo.Create(ctx, n.db, task); err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", event.Type, err)
	}
	return nil
}
