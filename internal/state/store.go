package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/shoplist/internal/item"
)

// Snapshot represents the latest list state available to observers.
type Snapshot struct {
	Items               []item.Item
	Hydrated            bool // true once the persisted list has been loaded
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive persistence failures
}

// IsDegraded returns true when persistence has failed repeatedly.
func (s Snapshot) IsDegraded() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent access to the snapshot and fans changes out to
// subscribers.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	nextID   int
	subs     map[int]chan Snapshot
}

// Publish replaces the item list and notifies subscribers.
func (s *Store) Publish(items []item.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Items = item.Clone(items)
	s.snapshot.Hydrated = true
	s.snapshot.LastUpdated = time.Now()
	s.notifyLocked()
}

// Fail records a persistence failure. The item list is kept as is.
func (s *Store) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
	s.notifyLocked()
}

// Recover clears the failure counter after a successful write. The last error
// stays visible until the next failure replaces it.
func (s *Store) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.ConsecutiveFailures == 0 {
		return
	}
	s.snapshot.ConsecutiveFailures = 0
	s.notifyLocked()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

// Subscribe registers a channel that receives the current snapshot and then
// every change. Slow subscribers only see the newest snapshot. Call the
// returned function to unsubscribe; it closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]chan Snapshot)
	}
	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch
	ch <- s.cloneLocked()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// CloseAll unsubscribes every observer.
func (s *Store) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		snap := s.cloneLocked()
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *Store) cloneLocked() Snapshot {
	snap := s.snapshot
	snap.Items = item.Clone(s.snapshot.Items)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
