package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Sweeper удаляет диалоги, простоявшие дольше ttl
type Sweeper interface {
	Sweep(now time.Time, ttl time.Duration) int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  Sweeper
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

// NewScheduler создаёт планировщик. Брошенные сессии проверяются раз в ttl/2,
// но не реже раза в минуту.
func NewScheduler(sweeper Sweeper, ttl time.Duration, now func() time.Time, logger *zap.Logger) *Scheduler {
	interval := ttl / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	return &Scheduler{
		sweeper:  sweeper,
		ttl:      ttl,
		interval: interval,
		now:      now,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))
	go s.runSweepTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) runSweepTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			s.logger.Info("Session sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep() {
	if n := s.sweeper.Sweep(s.now(), s.ttl); n > 0 {
		s.logger.Info("Dropped abandoned day-off sessions", zap.Int("count", n))
	}
}
