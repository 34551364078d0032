package quiz

import (
	"time"

	"github.com/verte-zerg/tuiquiz/internal/countdown"
	"github.com/verte-zerg/tuiquiz/internal/model"
)

// startTimerLocked starts the countdown for the current question and spawns
// a watcher bound to a fresh round number.
func (s *Session) startTimerLocked() error {
	s.cancelTimerLocked()
	if err := s.timer.Start(s.seconds); err != nil {
		return err
	}
	s.round++
	stop := make(chan struct{})
	s.stop = stop
	go s.watch(s.round, s.timer.C(), stop)
	return nil
}

// cancelTimerLocked stops the countdown and its watcher. Idempotent.
func (s *Session) cancelTimerLocked() {
	s.timer.Cancel()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Session) watch(round uint64, ticks <-chan time.Time, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticks:
			if !s.handleTick(round) {
				return
			}
		}
	}
}

// handleTick applies one countdown second. Ticks from a previous round or
// arriving after a submission are discarded, so expiry and a user answer
// racing for the same question grade it exactly once.
func (s *Session) handleTick(round uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if round != s.round || s.phase != model.AwaitingAnswer {
		return false
	}
	switch s.timer.Tick() {
	case countdown.Ticked:
		s.broadcastLocked()
		return true
	case countdown.Fired:
		s.submitLocked(nil)
		return false
	default:
		return false
	}
}
