// Package sched provides cancelable single-shot timers owned by a scope.
//
// Callbacks are expected to run on the owner's event goroutine: a Scheduler
// implementation either fires them synchronously (Manual) or delivers them
// through the host's event loop. Slots and scopes therefore take no locks.
package sched

import "time"

// Scheduler schedules fn to run once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// timer already fired or was stopped.
	Stop() bool
}

// Slot holds at most one live timer. Scheduling replaces the previous
// timer; firing, Cancel and scope teardown release it.
type Slot struct {
	scheduler Scheduler
	timer     Timer
	gen       uint64
	closed    bool
}

// NewSlot returns an empty slot backed by s.
func NewSlot(s Scheduler) *Slot {
	return &Slot{scheduler: s}
}

// Schedule cancels any pending timer and runs fn after d.
// It is a no-op on a closed slot.
func (sl *Slot) Schedule(d time.Duration, fn func()) {
	if sl.closed {
		return
	}
	sl.Cancel()
	sl.gen++
	gen := sl.gen
	sl.timer = sl.scheduler.AfterFunc(d, func() {
		// A stale timer can still be delivered after Stop when the host
		// queued it first.
		if sl.closed || sl.gen != gen || sl.timer == nil {
			return
		}
		sl.timer = nil
		fn()
	})
}

// Cancel stops the pending timer. It reports whether one was pending.
func (sl *Slot) Cancel() bool {
	if sl.timer == nil {
		return false
	}
	sl.timer.Stop()
	sl.timer = nil
	sl.gen++
	return true
}

// Pending reports whether a timer is scheduled.
func (sl *Slot) Pending() bool {
	return sl.timer != nil
}

// close cancels the pending timer and refuses further scheduling.
func (sl *Slot) close() {
	sl.Cancel()
	sl.closed = true
}

// Scope owns a set of slots and tears them down together.
type Scope struct {
	scheduler Scheduler
	slots     []*Slot
	closed    bool
}

// NewScope returns a scope whose slots use s.
func NewScope(s Scheduler) *Scope {
	return &Scope{scheduler: s}
}

// Slot acquires a new slot owned by the scope. Slots acquired after Close
// are already closed.
func (sc *Scope) Slot() *Slot {
	sl := NewSlot(sc.scheduler)
	if sc.closed {
		sl.closed = true
		return sl
	}
	sc.slots = append(sc.slots, sl)
	return sl
}

// Close cancels every pending timer in the scope.
func (sc *Scope) Close() {
	if sc.closed {
		return
	}
	sc.closed = true
	for _, sl := range sc.slots {
		sl.close()
	}
	sc.slots = nil
}

// Closed reports whether Close has been called.
func (sc *Scope) Closed() bool {
	return sc.closed
}
