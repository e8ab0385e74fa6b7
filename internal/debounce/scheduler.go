// Package debounce runs an action once a key has been quiet for a delay.
//
// Each key holds at most one pending action. Rescheduling a key stops the
// previous timer and bumps the key's generation, so a predecessor can never
// run its action. Callers that hand the settle off to another goroutine (an
// event loop, say) pass the generation along and check Current before acting
// on it, which covers a timer that fired just before it was superseded.
//
// Goroutine safety: all state is guarded by mu. Actions run on the timer's
// goroutine with mu released.
package debounce

import (
	"sync"
	"time"
)

// Keys used by the client.
const (
	KeySuggest = "suggest"
	KeyResolve = "resolve"
)

// Default delays.
const (
	DefaultSuggestDelay = 300 * time.Millisecond
	DefaultResolveDelay = 1200 * time.Millisecond
)

// Timer is the cancellable handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc starts a timer that calls f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type entry struct {
	gen   uint64
	timer Timer
}

// Scheduler is a registry of restartable per-key timers.
type Scheduler struct {
	mu      sync.Mutex
	after   AfterFunc
	pending map[string]*entry
	gens    map[string]uint64
	stopped bool
}

// New creates a Scheduler backed by time.AfterFunc.
func New() *Scheduler {
	return NewWithTimer(realAfterFunc)
}

// NewWithTimer creates a Scheduler using the given timer source.
func NewWithTimer(after AfterFunc) *Scheduler {
	if after == nil {
		after = realAfterFunc
	}
	return &Scheduler{
		after:   after,
		pending: make(map[string]*entry),
		gens:    make(map[string]uint64),
	}
}

// Schedule registers action to run once key has been quiet for delay.
// Any action already pending under key is cancelled. Returns the new
// generation for key, or 0 if the scheduler has been stopped.
func (s *Scheduler) Schedule(key string, delay time.Duration, action func()) uint64 {
	return s.ScheduleGen(key, delay, func(uint64) { action() })
}

// ScheduleGen is Schedule for actions that need their own generation, for
// example to tag a settle handed off to an event loop.
func (s *Scheduler) ScheduleGen(key string, delay time.Duration, action func(gen uint64)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0
	}
	s.cancelLocked(key)

	s.gens[key]++
	e := &entry{gen: s.gens[key]}
	s.pending[key] = e
	e.timer = s.after(delay, func() { s.fire(key, e, action) })
	return e.gen
}

func (s *Scheduler) fire(key string, e *entry, action func(uint64)) {
	s.mu.Lock()
	if s.stopped || s.pending[key] != e {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.mu.Unlock()

	action(e.gen)
}

// Cancel drops the pending action under key, if any, and invalidates the
// key's current generation.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(key)
	s.gens[key]++
}

func (s *Scheduler) cancelLocked(key string) {
	if e, ok := s.pending[key]; ok {
		e.timer.Stop()
		delete(s.pending, key)
	}
}

// Current reports whether gen is still the latest generation for key.
// Always false after Stop.
func (s *Scheduler) Current(key string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && gen != 0 && s.gens[key] == gen
}

// Pending reports whether an action is waiting under key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// Stop cancels every pending action. Later Schedule calls are no-ops.
// Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.pending {
		s.cancelLocked(key)
	}
	s.stopped = true
}
