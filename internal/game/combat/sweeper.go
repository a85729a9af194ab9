package combat

import (
	"context"
	"sync"
	"time"
)

// Sweeper periodically evicts idle sessions from an Engine.
// It is safe for concurrent use.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	onEvict  func(actor string)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// NewSweeper creates a Sweeper that calls engine.EvictIdle every interval.
// onEvict, if non-nil, is called once per evicted actor.
//
// Precondition: engine must be non-nil; interval > 0.
func NewSweeper(engine *Engine, interval time.Duration, onEvict func(actor string)) *Sweeper {
	return &Sweeper{engine: engine, interval: interval, onEvict: onEvict}
}

// Start launches the sweep loop. Calling Start on a running Sweeper is a no-op.
//
// Postcondition: the loop runs until Stop is called or ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil || s.stopped {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

func (s *Sweeper) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce evicts idle sessions immediately using the engine's clock.
//
// Postcondition: Returns the evicted actors.
func (s *Sweeper) SweepOnce() []string {
	evicted := s.engine.EvictIdle(s.engine.now())
	if s.onEvict != nil {
		for _, actor := range evicted {
			s.onEvict(actor)
		}
	}
	return evicted
}

// Stop halts the loop and waits for it to exit. Safe to call multiple times.
//
// Postcondition: no sweep runs after Stop returns.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.stopped = true
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
