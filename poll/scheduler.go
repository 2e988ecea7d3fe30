package poll

import (
	"sync"
	"sync/atomic"
	"time"
)

// State is the scheduler lifecycle state.
type State int

const (
	// StateIdle means no polling loop is active.
	StateIdle State = iota
	// StatePolling means a polling loop is running.
	StatePolling
)

// String returns the string representation of the state.
func (s State) String() string {
	if s == StatePolling {
		return "polling"
	}
	return "idle"
}

// Scheduler runs a callback on a fixed interval with a live countdown.
// It guarantees at most one active loop at a time and full timer teardown
// on Stop. Safe for concurrent use.
type Scheduler struct {
	mu        sync.Mutex
	done      chan struct{}
	wg        sync.WaitGroup
	state     State
	interval  time.Duration
	remaining atomic.Int64 // seconds until the next tick, for display

	// countdownPeriod is the cadence of the countdown ticker. Overridden
	// in tests to keep them fast.
	countdownPeriod time.Duration
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{countdownPeriod: time.Second}
}

// Start arms a repeating timer of the given period that invokes onTick,
// plus an independent one-second countdown. If a loop is already active it
// is fully torn down first; the previous loop never fires again once Start
// returns.
func (s *Scheduler) Start(interval time.Duration, onTick func()) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	if onTick == nil {
		return ErrNilTick
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()

	s.interval = interval
	s.remaining.Store(secondsIn(interval))
	s.done = make(chan struct{})
	s.state = StatePolling

	s.wg.Add(1)
	go s.loop(interval, onTick, s.done)

	return nil
}

// Stop tears down the polling loop and both timers. Calling Stop while
// idle is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Polling reports whether a loop is active.
func (s *Scheduler) Polling() bool {
	return s.State() == StatePolling
}

// Interval returns the active polling period, or zero when idle.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePolling {
		return 0
	}
	return s.interval
}

// Remaining returns the displayed time until the next tick. It wraps back
// to the full interval on every tick and on countdown exhaustion.
func (s *Scheduler) Remaining() time.Duration {
	return time.Duration(s.remaining.Load()) * time.Second
}

func (s *Scheduler) teardownLocked() {
	if s.state != StatePolling {
		return
	}
	close(s.done)
	s.wg.Wait()
	s.done = nil
	s.state = StateIdle
	s.remaining.Store(0)
}

func (s *Scheduler) loop(interval time.Duration, onTick func(), done chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	countdown := time.NewTicker(s.countdownPeriod)
	defer countdown.Stop()

	for {
		select {
		case <-ticker.C:
			s.remaining.Store(secondsIn(interval))
			onTick()
		case <-countdown.C:
			if s.remaining.Add(-1) <= 0 {
				s.remaining.Store(secondsIn(interval))
			}
		case <-done:
			return
		}
	}
}

func secondsIn(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
