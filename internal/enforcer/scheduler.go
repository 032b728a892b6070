package enforcer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"agency-pulse/pkg/logger"
)

// Scheduler drives a tick function on a fixed interval. A panicking tick is
// recovered and logged so one bad batch cannot take the loop down.
type Scheduler struct {
	interval time.Duration
	tickFn   func(context.Context)
	logger   *logger.Logger

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(interval time.Duration, tickFn func(context.Context), log *logger.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("interval must be > 0")
	}
	if tickFn == nil {
		return nil, errors.New("tickFn must not be nil")
	}
	return &Scheduler{
		interval: interval,
		tickFn:   tickFn,
		logger:   log,
		done:     make(chan struct{}),
	}, nil
}

func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running.Store(true)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("Enforcer started with interval %s", s.interval)

		s.safeTick(ctx)

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Enforcer stopping")
				return
			case <-ticker.C:
				s.safeTick(ctx)
			}
		}
	}()

	return true
}

func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return false
	}

	s.cancel()
	<-s.done
	s.running.Store(false)

	s.logger.Info("Enforcer stopped")
	return true
}

func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Enforcer tick panic recovered: %v", r)
		}
	}()

	start := time.Now()
	s.tickFn(ctx)
	s.logger.Info("Enforcer tick completed in %dms", time.Since(start).Milliseconds())
}
