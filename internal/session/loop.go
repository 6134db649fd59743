package session

import (
	"context"
	"sync"
	"time"

	"github.com/driima/chat/internal/api"
)

// Loop runs cycle on a fixed period and on demand, one cycle at a time.
type Loop struct {
	interval time.Duration
	cycle    func(ctx context.Context)
	trigger  chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLoop returns a stopped loop.
func NewLoop(interval time.Duration, cycle func(ctx context.Context)) *Loop {
	if interval <= 0 {
		interval = 4 * time.Second
	}
	return &Loop{
		interval: interval,
		cycle:    cycle,
		trigger:  make(chan struct{}),
	}
}

// Start launches the loop goroutine. Starting a running loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
}

// Trigger asks for an immediate cycle. It is dropped, and reports false,
// when a cycle is already running or the loop is stopped.
func (l *Loop) Trigger() bool {
	select {
	case l.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Stop cancels the loop and waits for the running cycle to return.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-l.trigger:
		}
		if ctx.Err() != nil {
			return
		}
		l.cycle(ctx)

		// Ticks that fired during the cycle are not replayed.
		select {
		case <-ticker.C:
		default:
		}
	}
}

// Connectivity tracks the online state of the poll transport.
type Connectivity struct {
	offline bool
}

// Observe records the outcome of a request and reports whether the error
// should be shown. Transport errors are shown on the online to offline edge
// only; application errors every time.
func (c *Connectivity) Observe(err error) bool {
	if err == nil {
		c.offline = false
		return false
	}
	if api.IsTransport(err) {
		if c.offline {
			return false
		}
		c.offline = true
		return true
	}
	c.offline = false
	return true
}

// Online reports the last observed state.
func (c *Connectivity) Online() bool {
	return !c.offline
}
