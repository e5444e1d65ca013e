package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/klauern/numfield/internal/sched"
)

// timerFiredMsg is delivered by tea.Tick when a scheduled callback is due.
type timerFiredMsg struct {
	id uint64
}

// teaScheduler runs field timers through the BubbleTea event loop, so every
// callback executes inside Update on the program goroutine.
type teaScheduler struct {
	next   uint64
	live   map[uint64]func()
	queued []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{live: make(map[uint64]func())}
}

type teaTimer struct {
	s  *teaScheduler
	id uint64
}

func (t teaTimer) Stop() bool {
	if _, ok := t.s.live[t.id]; !ok {
		return false
	}
	delete(t.s.live, t.id)
	return true
}

// AfterFunc implements sched.Scheduler. The tick command is queued until
// the next drain.
func (s *teaScheduler) AfterFunc(d time.Duration, fn func()) sched.Timer {
	s.next++
	id := s.next
	s.live[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return teaTimer{s: s, id: id}
}

// drain returns the ticks queued since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// fire runs the callback for id unless it was stopped.
func (s *teaScheduler) fire(id uint64) bool {
	fn, ok := s.live[id]
	if !ok {
		return false
	}
	delete(s.live, id)
	fn()
	return true
}

// pending returns the ids of live timers in scheduling order.
func (s *teaScheduler) pending() []uint64 {
	ids := make([]uint64, 0, len(s.live))
	for id := uint64(1); id <= s.next; id++ {
		if _, ok := s.live[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
