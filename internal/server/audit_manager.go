package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// AuditManager collects audit entries into batches and writes them from a
// small worker pool. A batch goes out when it is full or when flushAfter has
// passed since its first entry.
type AuditManager struct {
	logger     *zap.Logger
	workers    int
	batchSize  int
	flushAfter time.Duration

	entries chan AuditLogEntry
	batches chan []AuditLogEntry
	stopped chan struct{}
	stop    sync.Once
	running sync.WaitGroup

	pending atomic.Int64
}

func NewAuditManager(logger *zap.Logger, workers, batchSize int, flushAfter time.Duration) *AuditManager {
	return &AuditManager{
		logger:     logger,
		workers:    workers,
		batchSize:  batchSize,
		flushAfter: flushAfter,
		entries:    make(chan AuditLogEntry, workers*batchSize*2),
		batches:    make(chan []AuditLogEntry, workers*2),
		stopped:    make(chan struct{}),
	}
}

// Start launches the collector and the writers. Cancelling ctx has the same
// effect as Shutdown.
func (m *AuditManager) Start(ctx context.Context) {
	m.logger.Info("starting audit manager", zap.Int("workers", m.workers), zap.Int("batch_size", m.batchSize))

	m.running.Add(1 + m.workers)
	go m.collect(ctx)
	for id := 0; id < m.workers; id++ {
		go m.write(id)
	}

	go func() {
		select {
		case <-ctx.Done():
			m.Shutdown(context.Background())
		case <-m.stopped:
		}
	}()
}

// Shutdown flushes what has been collected and waits for the writers, or
// gives up when ctx ends first.
func (m *AuditManager) Shutdown(ctx context.Context) {
	m.stop.Do(func() {
		m.logger.Info("audit manager shutting down")
		close(m.stopped)

		finished := make(chan struct{})
		go func() {
			m.running.Wait()
			close(finished)
		}()

		select {
		case <-finished:
			m.logger.Info("audit manager shutdown completed")
		case <-ctx.Done():
			m.logger.Warn("audit manager shutdown interrupted", zap.Int("pending", m.Pending()))
		}
	})
}

// LogEntry never blocks past shutdown: late entries are written directly.
func (m *AuditManager) LogEntry(ctx context.Context, entry AuditLogEntry) {
	m.pending.Add(1)

	if m.isStopped() {
		m.writeDirect(entry)
		return
	}

	select {
	case m.entries <- entry:
	case <-m.stopped:
		m.writeDirect(entry)
	case <-ctx.Done():
		m.writeDirect(entry)
	}
}

func (m *AuditManager) Pending() int {
	return int(m.pending.Load())
}

func (m *AuditManager) isStopped() bool {
	select {
	case <-m.stopped:
		return true
	default:
		return false
	}
}

func (m *AuditManager) collect(ctx context.Context) {
	defer m.running.Done()
	defer close(m.batches)

	var (
		batch []AuditLogEntry
		timer = time.NewTimer(m.flushAfter)
	)
	timer.Stop()

	flush := func() {
		timer.Stop()
		if len(batch) == 0 {
			return
		}
		m.hand(batch)
		batch = nil
	}

	for {
		select {
		case entry := <-m.entries:
			batch = append(batch, entry)
			switch {
			case len(batch) >= m.batchSize:
				flush()
			case len(batch) == 1:
				timer.Reset(m.flushAfter)
			}

		case <-timer.C:
			flush()

		case <-ctx.Done():
			batch = m.drainInto(batch)
			flush()
			return

		case <-m.stopped:
			batch = m.drainInto(batch)
			flush()
			return
		}
	}
}

// drainInto picks up entries that were queued before the stop signal.
func (m *AuditManager) drainInto(batch []AuditLogEntry) []AuditLogEntry {
	for {
		select {
		case entry := <-m.entries:
			batch = append(batch, entry)
		default:
			return batch
		}
	}
}

// hand passes a batch to a writer, or writes it inline when every writer is
// busy and the queue is full.
func (m *AuditManager) hand(batch []AuditLogEntry) {
	select {
	case m.batches <- batch:
	default:
		m.writeBatch(-1, batch)
	}
}

func (m *AuditManager) write(id int) {
	defer m.running.Done()
	for batch := range m.batches {
		m.writeBatch(id, batch)
	}
}

func (m *AuditManager) writeBatch(workerID int, batch []AuditLogEntry) {
	log := m.logger.With(zap.Int("worker", workerID), zap.Int("batch_size", len(batch)))
	for _, entry := range batch {
		log.Info("audit", auditField(entry))
	}
	m.pending.Add(-int64(len(batch)))
}

func (m *AuditManager) writeDirect(entry AuditLogEntry) {
	m.logger.Warn("audit entry written outside batch", auditField(entry))
	m.pending.Add(-1)
}
