package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	ttl   atomic.Int64
}

func (s *countingSweeper) Sweep(_ time.Time, ttl time.Duration) int {
	s.calls.Add(1)
	s.ttl.Store(int64(ttl))
	return 1
}

func TestSchedulerInterval(t *testing.T) {
	s := NewScheduler(&countingSweeper{}, 15*time.Minute, time.Now, zap.NewNop())
	assert.Equal(t, time.Minute, s.interval)

	s = NewScheduler(&countingSweeper{}, 40*time.Millisecond, time.Now, zap.NewNop())
	assert.Equal(t, 20*time.Millisecond, s.interval)
}

func TestSchedulerSweepsUntilStopped(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(sweeper, 20*time.Millisecond, time.Now, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	calls := sweeper.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, sweeper.calls.Load())
	assert.Equal(t, int64(20*time.Millisecond), sweeper.ttl.Load())
}

func TestSchedulerStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(&countingSweeper{}, time.Hour, time.Now, zap.NewNop())

	s.Start(ctx)
	cancel()
	s.Stop()
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := NewScheduler(&countingSweeper{}, time.Hour, time.Now, zap.NewNop())
	s.Stop()
}
