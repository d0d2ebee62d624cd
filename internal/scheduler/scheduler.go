// Package scheduler provides the time source used to drive order progression.
// Production code uses Real; tests use Manual and move its clock by hand.
package scheduler

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports false if the
	// callback already fired or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	Clock
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules callbacks on wall-clock timers.
type Real struct{}

// NewReal returns a wall-clock scheduler.
func NewReal() *Real {
	return &Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Group owns the timers acquired for one scope. Cancel stops all of them and
// makes every later AfterFunc call a no-op.
type Group struct {
	mu       sync.Mutex
	sched    Scheduler
	timers   []Timer
	canceled bool
}

// NewGroup creates an empty group on s.
func NewGroup(s Scheduler) *Group {
	return &Group{sched: s}
}

// AfterFunc schedules f unless the group was canceled.
func (g *Group) AfterFunc(d time.Duration, f func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.canceled {
		return false
	}
	g.timers = append(g.timers, g.sched.AfterFunc(d, f))
	return true
}

// Cancel stops every timer of the group and returns how many were still pending.
func (g *Group) Cancel() int {
	g.mu.Lock()
	timers := g.timers
	g.timers = nil
	g.canceled = true
	g.mu.Unlock()

	stopped := 0
	for _, t := range timers {
		if t.Stop() {
			stopped++
		}
	}
	return stopped
}

// Canceled reports whether Cancel was called.
func (g *Group) Canceled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canceled
}
