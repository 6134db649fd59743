package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoopDropsTriggerWhileCycleRuns(t *testing.T) {
	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	var cycles atomic.Int32

	loop := NewLoop(time.Hour, func(ctx context.Context) {
		cycles.Add(1)
		entered <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
	})
	loop.Start(context.Background())
	defer loop.Stop()

	if !waitTrigger(loop) {
		t.Fatalf("idle loop should accept a trigger")
	}
	<-entered

	if loop.Trigger() {
		t.Fatalf("trigger during a running cycle must be dropped")
	}
	close(release)

	if !waitTrigger(loop) {
		t.Fatalf("loop should accept a trigger once idle again")
	}
	<-entered
	if got := cycles.Load(); got != 2 {
		t.Fatalf("cycles = %d, want 2", got)
	}
}

func TestLoopTicks(t *testing.T) {
	ticked := make(chan struct{}, 8)
	loop := NewLoop(5*time.Millisecond, func(context.Context) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})
	loop.Start(context.Background())
	defer loop.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-ticked:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for tick %d", i)
		}
	}
}

func TestLoopStopWaitsAndIsIdempotent(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	loop := NewLoop(time.Hour, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished.Store(true)
	})
	loop.Start(context.Background())
	waitTrigger(loop)
	<-started

	loop.Stop()
	if !finished.Load() {
		t.Fatalf("Stop must wait for the running cycle")
	}
	loop.Stop()
	if loop.Trigger() {
		t.Fatalf("stopped loop must not accept triggers")
	}
}

// waitTrigger retries until the loop goroutine is parked in its select.
func waitTrigger(loop *Loop) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if loop.Trigger() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func TestConnectivityEdges(t *testing.T) {
	var c Connectivity
	steps := []struct {
		err  error
		want bool
	}{
		{transportErr(), true},
		{transportErr(), false},
		{transportErr(), false},
		{nil, false},
		{transportErr(), true},
		{appErr(500), true},
		{appErr(500), true},
		{transportErr(), true},
		{nil, false},
	}
	for i, step := range steps {
		if got := c.Observe(step.err); got != step.want {
			t.Fatalf("step %d: Observe(%v) = %v, want %v", i, step.err, got, step.want)
		}
	}
	if !c.Online() {
		t.Fatalf("expected online after success")
	}
}
