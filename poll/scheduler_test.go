package poll

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_StartValidation(t *testing.T) {
	s := NewScheduler()

	if err := s.Start(0, func() {}); err != ErrInvalidInterval {
		t.Errorf("Start(0) error = %v, want ErrInvalidInterval", err)
	}
	if err := s.Start(-time.Second, func() {}); err != ErrInvalidInterval {
		t.Errorf("Start(-1s) error = %v, want ErrInvalidInterval", err)
	}
	if err := s.Start(time.Second, nil); err != ErrNilTick {
		t.Errorf("Start(nil tick) error = %v, want ErrNilTick", err)
	}
	if s.Polling() {
		t.Error("scheduler should stay idle after rejected Start")
	}
}

func TestScheduler_TicksFire(t *testing.T) {
	s := NewScheduler()
	var ticks atomic.Int64

	if err := s.Start(20*time.Millisecond, func() { ticks.Add(1) }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	time.Sleep(110 * time.Millisecond)
	n := ticks.Load()
	if n < 3 {
		t.Errorf("expected at least 3 ticks in 110ms at 20ms period, got %d", n)
	}
}

func TestScheduler_StopPreventsFurtherTicks(t *testing.T) {
	s := NewScheduler()
	var ticks atomic.Int64

	if err := s.Start(20*time.Millisecond, func() { ticks.Add(1) }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	n := ticks.Load()
	time.Sleep(60 * time.Millisecond)
	if ticks.Load() != n {
		t.Errorf("ticks fired after Stop: %d -> %d", n, ticks.Load())
	}
	if s.Polling() {
		t.Error("state should be idle after Stop")
	}
}

func TestScheduler_StopWhileIdleIsNoop(t *testing.T) {
	s := NewScheduler()

	// Must not panic or block.
	s.Stop()
	s.Stop()

	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestScheduler_RestartReplacesLoop(t *testing.T) {
	s := NewScheduler()
	var first, second atomic.Int64

	if err := s.Start(25*time.Millisecond, func() { first.Add(1) }); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	// Restart before any tick of the first loop can fire.
	if err := s.Start(25*time.Millisecond, func() { second.Add(1) }); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	defer s.Stop()

	time.Sleep(90 * time.Millisecond)

	if first.Load() != 0 {
		t.Errorf("replaced loop fired %d times after restart, want 0", first.Load())
	}
	// Exactly one loop is active: tick count must match one 25ms loop,
	// not two running side by side.
	n := second.Load()
	if n < 2 || n > 5 {
		t.Errorf("active loop fired %d times in 90ms, want one loop's worth (2-5)", n)
	}
}

func TestScheduler_CountdownResets(t *testing.T) {
	s := NewScheduler()
	s.countdownPeriod = 5 * time.Millisecond

	if err := s.Start(3*time.Second, func() {}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if got := s.Remaining(); got != 3*time.Second {
		t.Errorf("initial Remaining() = %v, want 3s", got)
	}

	// The accelerated countdown decrements 3 -> 0 and wraps back to the
	// full interval; the value must always stay within [1s, 3s].
	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		got := s.Remaining()
		if got < time.Second || got > 3*time.Second {
			t.Fatalf("Remaining() = %v, want within [1s, 3s]", got)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestScheduler_RemainingZeroWhenIdle(t *testing.T) {
	s := NewScheduler()
	if err := s.Start(time.Minute, func() {}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()

	if got := s.Remaining(); got != 0 {
		t.Errorf("Remaining() after Stop = %v, want 0", got)
	}
	if got := s.Interval(); got != 0 {
		t.Errorf("Interval() after Stop = %v, want 0", got)
	}
}

func TestScheduler_LateResponseSafe(t *testing.T) {
	// A tick callback still running when Stop is called must complete;
	// Stop waits for the loop goroutine.
	s := NewScheduler()
	started := make(chan struct{})
	var finished atomic.Bool

	err := s.Start(10*time.Millisecond, func() {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	<-started
	s.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the in-flight tick completed")
	}
}
