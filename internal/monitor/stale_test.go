package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubFlagger struct {
	calls     atomic.Int32
	flagged   int
	err       error
	lastAfter time.Duration
}

func (s *stubFlagger) FlagStaleDeliveries(_ context.Context, staleAfter time.Duration) (int, error) {
	s.calls.Add(1)
	s.lastAfter = staleAfter
	return s.flagged, s.err
}

func TestStaleMonitor_Check(t *testing.T) {
	t.Run("flagged deliveries are reported", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		flagger := &stubFlagger{flagged: 2}
		m := NewStaleMonitor(flagger, 5*time.Minute, time.Second, zap.New(core))

		assert.Equal(t, 2, m.Check(context.Background()))
		assert.Equal(t, 5*time.Minute, flagger.lastAfter)
		require.Equal(t, 1, logs.FilterMessage("deliveries flagged as partner unreachable").Len())
	})

	t.Run("nothing stale is quiet", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		m := NewStaleMonitor(&stubFlagger{}, 5*time.Minute, time.Second, zap.New(core))

		assert.Zero(t, m.Check(context.Background()))
		assert.Zero(t, logs.Len())
	})

	t.Run("errors are logged not returned", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		m := NewStaleMonitor(&stubFlagger{err: errors.New("database error")}, 5*time.Minute, time.Second, zap.New(core))

		assert.Zero(t, m.Check(context.Background()))
		assert.Equal(t, 1, logs.FilterMessage("stale partner check failed").Len())
	})
}

func TestStaleMonitor_RunTicksUntilCancelled(t *testing.T) {
	flagger := &stubFlagger{}
	m := NewStaleMonitor(flagger, time.Minute, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	assert.Eventually(t, func() bool { return flagger.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
