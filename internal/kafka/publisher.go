package kafka

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/metrics"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

type PublisherConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	MaxAttempts     int
	ProcessingLease time.Duration
}

// settleTimeout bounds status writes that outlive a cancelled poll.
const settleTimeout = 5 * time.Second

// Publisher drains the outbox into the producer. Tasks are claimed with
// SKIP LOCKED so several publishers can share one table.
type Publisher struct {
	db       db.DB
	repo     storage.OutboxTaskRepository
	producer Producer
	config   PublisherConfig
	logger   *zap.Logger
	now      func() time.Time
}

func NewPublisher(database db.DB, repo storage.OutboxTaskRepository, producer Producer, config PublisherConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		db:       database,
		repo:     repo,
		producer: producer,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled, then closes the producer.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("starting outbox publisher",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("batch_size", p.config.BatchSize),
	)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox batch failed", zap.Error(err))
			}
		case <-ctx.Done():
			p.logger.Info("outbox publisher stopping")
			if err := p.producer.Close(); err != nil {
				p.logger.Error("failed to close kafka producer", zap.Error(err))
			}
			return nil
		}
	}
}

func (p *Publisher) processBatch(ctx context.Context) error {
	leaseExpired := p.now().UTC().Add(-p.config.ProcessingLease)

	var tasks []*repository.OutboxTask
	err := db.InTx(ctx, p.db, func(tx db.Tx) error {
		var err error
		tasks, err = p.repo.GetProcessableTasks(ctx, tx, p.config.BatchSize, p.config.MaxAttempts, leaseExpired)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			err := p.repo.UpdateTaskStatus(ctx, tx, task.ID, repository.TaskStatusProcessing, task.Attempts, task.LastError, nil)
			if err != nil {
				return fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	p.logger.Debug("outbox tasks fetched", zap.Int("count", len(tasks)))
	for i, task := range tasks {
		if ctx.Err() != nil {
			p.release(ctx, tasks[i:])
			return ctx.Err()
		}
		if err := p.processSingleTask(ctx, task); err != nil {
			p.logger.Error("outbox task failed", zap.Stringer("task_id", task.ID), zap.Error(err))
		}
	}
	return nil
}

// settleContext keeps status writes alive after ctx is cancelled so a
// shutdown does not leave tasks stuck in PROCESSING.
func settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
}

// release hands unsent tasks back to the outbox without counting an attempt.
func (p *Publisher) release(ctx context.Context, tasks []*repository.OutboxTask) {
	settleCtx, cancel := settleContext(ctx)
	defer cancel()

	for _, task := range tasks {
		status := repository.TaskStatusCreated
		if task.Attempts > 0 {
			status = repository.TaskStatusFailed
		}
		if err := p.repo.UpdateTaskStatus(settleCtx, p.db, task.ID, status, task.Attempts, task.LastError, nil); err != nil {
			p.logger.Error("failed to release outbox task", zap.Stringer("task_id", task.ID), zap.Error(err))
			continue
		}
		metrics.OutboxPublishedTotal.WithLabelValues("released").Inc()
	}
	p.logger.Info("outbox tasks released on shutdown", zap.Int("count", len(tasks)))
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	log := p.logger.With(zap.Stringer("task_id", task.ID), zap.Int("attempt", task.Attempts+1))

	sendErr := p.producer.SendMessage(ctx, task.Topic, []byte(task.ID.String()), task.Payload)
	if sendErr != nil && ctx.Err() != nil {
		p.release(ctx, []*repository.OutboxTask{task})
		return sendErr
	}

	settleCtx, cancel := settleContext(ctx)
	defer cancel()

	if sendErr != nil {
		metrics.OutboxPublishedTotal.WithLabelValues("failed").Inc()
		attempts := task.Attempts + 1
		errMsg := sendErr.Error()
		if attempts >= p.config.MaxAttempts {
			log.Error("outbox task reached max attempts", zap.Int("max_attempts", p.config.MaxAttempts), zap.Error(sendErr))
		} else {
			log.Warn("outbox send failed", zap.Error(sendErr))
		}

		if updateErr := p.repo.UpdateTaskStatus(settleCtx, p.db, task.ID, repository.TaskStatusFailed, attempts, &errMsg, nil); updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure: %w", updateErr)
		}
		return sendErr
	}

	metrics.OutboxPublishedTotal.WithLabelValues("done").Inc()
	now := p.now().UTC()
	if err := p.repo.UpdateTaskStatus(settleCtx, p.db, task.ID, repository.TaskStatusDone, task.Attempts+1, nil, &now); err != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", err)
	}
	log.Debug("outbox task published")
	return nil
}
