package services

import (
	"sync"
	"time"

	"foodexpress/internal/models"
	"foodexpress/internal/scheduler"
)

// DefaultProgressSchedule is the offset from order creation at which each
// automatic transition happens.
var DefaultProgressSchedule = []time.Duration{2 * time.Second, 4 * time.Second, 7 * time.Second}

// OrderTracker drives an OrderSimulator forward on a scheduler. All timers of
// the tracked order live in one group so they can be canceled together.
// Automatic transitions are applied and reported under the step lock, which
// Step shares with callers that change the simulator by hand.
type OrderTracker struct {
	mu        sync.Mutex
	step      sync.Mutex
	sim       *OrderSimulator
	sched     scheduler.Scheduler
	schedule  []time.Duration
	group     *scheduler.Group
	orderID   string
	onAdvance func(models.Order)
}

// NewOrderTracker creates a tracker. schedule holds one cumulative offset per
// transition; onAdvance, if set, is called after every automatic transition.
func NewOrderTracker(sim *OrderSimulator, sched scheduler.Scheduler, schedule []time.Duration, onAdvance func(models.Order)) *OrderTracker {
	if len(schedule) == 0 {
		schedule = DefaultProgressSchedule
	}
	return &OrderTracker{
		sim:       sim,
		sched:     sched,
		schedule:  append([]time.Duration(nil), schedule...),
		onAdvance: onAdvance,
	}
}

// Track cancels whatever was scheduled before and schedules the remaining
// transitions of order. Delays are measured from order.CreatedAt, so overdue
// steps fire immediately. It returns the number of transitions scheduled.
func (t *OrderTracker) Track(order models.Order) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	group := scheduler.NewGroup(t.sched)
	t.group = group
	t.orderID = order.ID

	statuses := models.OrderStatuses()
	now := t.sched.Now()
	scheduled := 0
	for i := order.Status.Index(); i >= 0 && i < len(t.schedule) && i < len(statuses)-1; i++ {
		target := statuses[i+1]
		delay := order.CreatedAt.Add(t.schedule[i]).Sub(now)
		if delay < 0 {
			delay = 0
		}
		orderID := order.ID
		if group.AfterFunc(delay, func() { t.fire(group, orderID, target) }) {
			scheduled++
		}
	}
	return scheduled
}

// fire brings the order up to target. Callbacks may run in any order on a
// real scheduler, so each one covers the steps before it as well.
func (t *OrderTracker) fire(group *scheduler.Group, orderID string, target models.OrderStatus) {
	t.step.Lock()
	defer t.step.Unlock()

	if group.Canceled() {
		return
	}
	for _, order := range t.sim.AdvanceTo(orderID, target) {
		if t.onAdvance != nil {
			t.onAdvance(order)
		}
	}
}

// Step runs fn under the step lock. No automatic transition is applied or
// reported while fn runs.
func (t *OrderTracker) Step(fn func()) {
	t.step.Lock()
	defer t.step.Unlock()
	fn()
}

// Stop cancels every pending transition. It returns how many were pending.
func (t *OrderTracker) Stop() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelLocked()
}

// Tracking reports the id of the order being tracked, if any.
func (t *OrderTracker) Tracking() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.group == nil {
		return "", false
	}
	return t.orderID, true
}

func (t *OrderTracker) cancelLocked() int {
	if t.group == nil {
		return 0
	}
	n := t.group.Cancel()
	t.group = nil
	t.orderID = ""
	return n
}
