package prefs

import (
	"context"
	"log"
	"time"
)

const defaultWatchInterval = 2 * time.Second

// Watch polls the preferences file at a fixed cadence and broadcasts its
// contents whenever another process changed them. Writes made through Edit are
// fingerprinted and never rebroadcast. It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	s.checkForChange(false)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.isClosed() {
				return
			}
			s.checkForChange(true)
		}
	}
}

// checkForChange re-reads the file and, when its fingerprint moved, records it
// and optionally broadcasts the new contents.
func (s *Store) checkForChange(notify bool) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	current, sum, err := s.read()

	s.mu.Lock()
	changed := !s.hashed || sum != s.lastHash
	s.lastHash = sum
	s.hashed = true
	s.mu.Unlock()

	if !changed || !notify {
		return
	}
	if err != nil {
		log.Printf("prefs watch: %v", err)
		s.broadcast(Snapshot{Prefs: Prefs{}, Err: err})
		return
	}
	s.broadcast(Snapshot{Prefs: current})
}
