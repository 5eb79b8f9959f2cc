package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRunner struct {
	ticks atomic.Int64
	panic bool
}

func (r *countingRunner) RunTick(ctx context.Context) {
	r.ticks.Add(1)
	if r.panic {
		panic("tick failure")
	}
}

func TestIntervalScheduler(t *testing.T) {
	t.Run("runs ticks until stopped", func(t *testing.T) {
		runner := &countingRunner{}
		s := NewIntervalScheduler(10*time.Millisecond, runner, zap.NewNop())

		require.NoError(t, s.Start(context.Background()))

		assert.Eventually(t, func() bool {
			return runner.ticks.Load() >= 3
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, s.Stop(context.Background()))

		stopped := runner.ticks.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, stopped, runner.ticks.Load())
	})

	t.Run("panicking tick does not kill the loop", func(t *testing.T) {
		runner := &countingRunner{panic: true}
		s := NewIntervalScheduler(10*time.Millisecond, runner, zap.NewNop())

		require.NoError(t, s.Start(context.Background()))
		defer s.Stop(context.Background())

		assert.Eventually(t, func() bool {
			return runner.ticks.Load() >= 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("start and stop are idempotent", func(t *testing.T) {
		runner := &countingRunner{}
		s := NewIntervalScheduler(time.Hour, runner, zap.NewNop())

		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Stop(context.Background()))
		require.NoError(t, s.Stop(context.Background()))
	})
}
