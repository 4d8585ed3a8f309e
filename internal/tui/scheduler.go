package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerFiredMsg carries a due timer into Update
type timerFiredMsg struct {
	id uint64
}

// LoopScheduler implements reactive.Scheduler on top of the Bubble Tea
// event loop. Timers fire on their own goroutines but only send a message;
// the callback runs when Update hands that message to Handle.
type LoopScheduler struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	queued  []uint64 // fired before Attach
	nextID  uint64
	pending map[uint64]func()
	now     func() time.Time
}

// NewLoopScheduler creates a scheduler. Attach must be called with the
// program's Send before timers can be delivered.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{
		pending: make(map[uint64]func()),
		now:     time.Now,
	}
}

// Attach connects the scheduler to a program, typically program.Send.
// Timers that fired earlier are delivered in order.
func (s *LoopScheduler) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()

	if len(queued) == 0 {
		return
	}
	// Send blocks until the program reads, which may not have started yet
	go func() {
		for _, id := range queued {
			send(timerFiredMsg{id: id})
		}
	}()
}

// AfterFunc schedules f to run inside Update after d.
func (s *LoopScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.pending[id] = f
	s.mu.Unlock()

	t := time.AfterFunc(d, func() { s.fire(id) })

	return func() bool {
		t.Stop()
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.pending[id]
		delete(s.pending, id)
		return ok
	}
}

// Now returns the wall clock
func (s *LoopScheduler) Now() time.Time {
	return s.now()
}

// Handle runs the callback carried by msg. It reports whether msg
// belonged to the scheduler.
func (s *LoopScheduler) Handle(msg tea.Msg) bool {
	fired, ok := msg.(timerFiredMsg)
	if !ok {
		return false
	}

	s.mu.Lock()
	f := s.pending[fired.id]
	delete(s.pending, fired.id)
	s.mu.Unlock()

	if f != nil {
		f()
	}
	return true
}

// Pending returns the number of callbacks not yet run or cancelled
func (s *LoopScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *LoopScheduler) fire(id uint64) {
	s.mu.Lock()
	if _, ok := s.pending[id]; !ok {
		s.mu.Unlock()
		return
	}
	send := s.send
	if send == nil {
		s.queued = append(s.queued, id)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	send(timerFiredMsg{id: id})
}
