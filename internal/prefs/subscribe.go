package prefs

import (
	"context"
	"maps"
	"sync"
)

// subscriber holds at most one pending snapshot. A newer snapshot replaces an
// unread one, so slow readers always observe the latest state.
type subscriber struct {
	mu   sync.Mutex
	ch   chan Snapshot
	done bool
}

func newSubscriber() *subscriber {
	return &subscriber{ch: make(chan Snapshot, 1)}
}

func (s *subscriber) send(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

// close delivers ErrClosed as the final snapshot and closes the channel.
func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	select {
	case <-s.ch:
	default:
	}
	s.ch <- Snapshot{Prefs: Prefs{}, Err: ErrClosed}
	close(s.ch)
}

// detach closes the channel without a final snapshot.
func (s *subscriber) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	close(s.ch)
}

// Subscribe emits the current preferences and then every change until ctx is
// cancelled or the store is closed. Read faults are delivered as snapshots
// wrapping ErrUnavailable and do not end the subscription; closing the store
// delivers ErrClosed and then closes the channel.
func (s *Store) Subscribe(ctx context.Context) <-chan Snapshot {
	sub := newSubscriber()

	s.editMu.Lock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.editMu.Unlock()
		sub.close()
		return sub.ch
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.watchers.Add(1)
	s.mu.Unlock()

	current, _, err := s.read()
	if err != nil {
		sub.send(Snapshot{Prefs: Prefs{}, Err: err})
	} else {
		sub.send(Snapshot{Prefs: current})
	}
	s.editMu.Unlock()

	go func() {
		defer s.watchers.Done()
		select {
		case <-ctx.Done():
		case <-s.closing:
		}
		s.mu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
		}
		s.mu.Unlock()
		sub.detach()
	}()

	return sub.ch
}

func (s *Store) broadcast(snap Snapshot) {
	s.mu.Lock()
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		out := snap
		out.Prefs = maps.Clone(snap.Prefs)
		if out.Prefs == nil {
			out.Prefs = Prefs{}
		}
		sub.send(out)
	}
}
