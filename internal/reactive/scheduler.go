package reactive

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs callbacks on the owning event loop after a delay.
// Implementations must be safe to call from any goroutine, and must
// invoke callbacks only on the loop.
type Scheduler interface {
	// AfterFunc schedules f after d. cancel reports whether the call
	// stopped f from running.
	AfterFunc(d time.Duration, f func()) (cancel func() bool)

	// Now returns the scheduler's notion of the current time
	Now() time.Time
}

// Post schedules f to run on the loop as soon as possible.
func Post(s Scheduler, f func()) {
	s.AfterFunc(0, f)
}

// ManualScheduler is a Scheduler driven by a virtual clock. Callbacks run
// on the goroutine calling Advance or Flush.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at        time.Time
	seq       int
	fn        func()
	cancelled bool
	fired     bool
}

// NewManualScheduler creates a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTimer{at: s.now.Add(d), seq: s.seq, fn: f}
	s.timers = append(s.timers, t)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.fired || t.cancelled {
			return false
		}
		t.cancelled = true
		return true
	}
}

func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d, running every callback that falls
// due, in deadline order. Callbacks scheduled while advancing also run if
// they fall inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	s.mu.Lock()
	if target.After(s.now) {
		s.now = target
	}
	s.mu.Unlock()
}

// Flush runs callbacks that are already due without moving the clock.
func (s *ManualScheduler) Flush() {
	s.Advance(0)
}

// Pending returns the number of callbacks not yet run or cancelled
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

// nextDue pops the earliest live timer due at or before target and moves
// the clock to its deadline.
func (s *ManualScheduler) nextDue(target time.Time) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.fired && !t.cancelled {
			live = append(live, t)
		}
	}
	s.timers = live

	sort.SliceStable(s.timers, func(i, j int) bool {
		if !s.timers[i].at.Equal(s.timers[j].at) {
			return s.timers[i].at.Before(s.timers[j].at)
		}
		return s.timers[i].seq < s.timers[j].seq
	})

	if len(s.timers) == 0 || s.timers[0].at.After(target) {
		return nil
	}
	t := s.timers[0]
	t.fired = true
	if t.at.After(s.now) {
		s.now = t.at
	}
	return t
}
