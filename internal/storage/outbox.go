//go:generate mockgen -source ./outbox.go -destination=./mocks/outbox.go -package=mock_storage
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
)

// OutboxTaskRepository works against either the pool or an open transaction.
type OutboxTaskRepository interface {
	Create(ctx context.Context, q db.Querier, task *repository.OutboxTask) error
	// GetProcessableTasks also returns PROCESSING tasks last touched before
	// leaseExpired, so a publisher that died mid-batch does not strand them.
	GetProcessableTasks(ctx context.Context, q db.Querier, limit, maxAttempts int, leaseExpired time.Time) ([]*repository.OutboxTask, error)
	UpdateTaskStatus(ctx context.Context, q db.Querier, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}
