package renderer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/weatherfx/parameter"
)

// FrameID identifies one pending frame callback
type FrameID uint64

// Scheduler requests a single callback for the next frame
type Scheduler interface {
	Request(fn func(now time.Time)) FrameID
	Cancel(id FrameID)
}

// FrameSource is a host-provided frame primitive, such as a vsync-driven display loop
// It has the same contract as Scheduler and is used as-is when present
type FrameSource = Scheduler

// SelectScheduler returns the native source when available, otherwise a timer shim on clock
func SelectScheduler(src FrameSource, clock clockwork.Clock, interval time.Duration) Scheduler {
	if src != nil {
		return src
	}
	return NewTimerScheduler(clock, interval)
}

// TimerScheduler emulates a frame primitive with one-shot timers
// Pending frames live in a per-instance handle table so instances never share timers
type TimerScheduler struct {
	clock    clockwork.Clock
	interval time.Duration

	mu      sync.Mutex
	nextID  FrameID
	handles map[FrameID]clockwork.Timer
}

// NewTimerScheduler creates a shim firing interval after each request
func NewTimerScheduler(clock clockwork.Clock, interval time.Duration) *TimerScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = parameter.FrameInterval
	}
	return &TimerScheduler{
		clock:    clock,
		interval: interval,
		handles:  make(map[FrameID]clockwork.Timer),
	}
}

// Request schedules fn once; the returned id cancels it
func (s *TimerScheduler) Request(fn func(now time.Time)) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.handles[id] = s.clock.AfterFunc(s.interval, func() {
		s.mu.Lock()
		_, live := s.handles[id]
		delete(s.handles, id)
		s.mu.Unlock()
		if live {
			fn(s.clock.Now())
		}
	})
	return id
}

// Cancel stops a pending frame; unknown or fired ids are ignored
func (s *TimerScheduler) Cancel(id FrameID) {
	s.mu.Lock()
	t, ok := s.handles[id]
	delete(s.handles, id)
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Pending returns the number of scheduled, unfired frames
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Interval returns the shim period
func (s *TimerScheduler) Interval() time.Duration {
	return s.interval
}
