// Package poll provides the fixed-interval refresh scheduler for the fleet
// health engine.
//
// A Scheduler owns at most one active polling loop. Starting it arms a
// repeating timer that fires the supplied callback, plus an independent
// one-second countdown exposing the seconds remaining until the next
// refresh for display. Starting while already polling tears the previous
// loop down first, so timers never double-fire; stopping while idle is a
// no-op.
//
//	sched := poll.NewScheduler()
//	_ = sched.Start(30*time.Second, func() { engine.RunFleetCheck(ctx) })
//	defer sched.Stop()
package poll
