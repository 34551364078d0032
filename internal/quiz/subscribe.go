package quiz

import "github.com/verte-zerg/tuiquiz/internal/model"

// Subscribe returns a channel receiving a snapshot after every state change,
// starting with the current one. The caller must invoke cancel to avoid leaks.
func (s *Session) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow reader: replace the oldest pending snapshot with the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
