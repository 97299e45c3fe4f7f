// Package banner drives the transient notification shown over the match
// stats screen: visible immediately when the screen opens, hidden after a
// short display window, shown again on a fixed recurring period. One
// Scheduler exists per screen session and must be stopped when the session
// ends so no callback fires against a disposed view.
package banner

import (
	"fmt"
	"sync"
	"time"
)

// Timer is the cancelable handle returned by a Clock
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The real implementation delegates to
// time.AfterFunc; tests substitute a fake for deterministic control.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the system timer
func RealClock() Clock {
	return realClock{}
}

// Scheduler runs the show/hide cycle of the notification banner
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	period   time.Duration
	duration time.Duration
	onShow   func()
	onHide   func()

	hideTimer  Timer
	cycleTimer Timer
	stopped    bool
}

// NewScheduler creates a banner scheduler. The period must be at least the
// display duration, otherwise a cycle's hide could land after the next
// cycle's show.
func NewScheduler(clock Clock, period, duration time.Duration, onShow, onHide func()) (*Scheduler, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("display duration must be positive, got %s", duration)
	}
	if period < duration {
		return nil, fmt.Errorf("period %s must be at least the display duration %s", period, duration)
	}
	return &Scheduler{
		clock:    clock,
		period:   period,
		duration: duration,
		onShow:   onShow,
		onHide:   onHide,
	}, nil
}

// Start shows the banner immediately and begins the recurring cycle
func (s *Scheduler) Start() {
	s.cycle()
}

func (s *Scheduler) cycle() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	// A hide still pending from the previous cycle must not land after
	// this cycle's show
	if s.hideTimer != nil {
		s.hideTimer.Stop()
	}
	s.hideTimer = s.clock.AfterFunc(s.duration, s.hide)
	s.cycleTimer = s.clock.AfterFunc(s.period, s.cycle)
	show := s.onShow
	s.mu.Unlock()

	show()
}

func (s *Scheduler) hide() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	hide := s.onHide
	s.mu.Unlock()

	hide()
}

// Stop cancels both timers. After Stop returns, no show or hide callback
// will run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	if s.hideTimer != nil {
		s.hideTimer.Stop()
	}
	if s.cycleTimer != nil {
		s.cycleTimer.Stop()
	}
}
