package shopping

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/five82/shoplist/internal/item"
)

var errObserveEnded = errors.New("shopping list observation ended")

// run is the single owner of the list. Storage emissions and commands are
// handled one at a time; commands are held back until the first emission.
func (m *Manager) run(ctx context.Context) error {
	var (
		current  []item.Item
		hydrated bool
		seq      uint64
		failures int
		retry    <-chan time.Time
	)
	updates := m.repo.Observe(ctx)

	observeFailed := func(err error) {
		m.cell.Fail(err)
		m.reportFailure(err)
		delay := calculateBackoff(failures, m.retryBase)
		failures++
		log.Printf("%v; resubscribing in %v", err, delay)
		updates = nil
		retry = time.After(delay)
		if !hydrated {
			hydrated = true
			current = []item.Item{}
			m.cell.Publish(current)
		}
	}

	for {
		var cmds chan request
		if hydrated {
			cmds = m.cmds
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-retry:
			retry = nil
			updates = m.repo.Observe(ctx)

		case u, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				observeFailed(errObserveEnded)
				continue
			}
			if u.Err != nil {
				observeFailed(u.Err)
				continue
			}
			failures = 0
			if m.consumeEcho(u.Items) {
				continue
			}
			current = item.Clone(u.Items)
			hydrated = true
			m.cell.Publish(current)

		case req := <-cmds:
			current = Apply(current, req.cmd)
			seq++
			saved := item.Clone(current)
			m.pendingMu.Lock()
			m.pending = append(m.pending, pendingSave{seq: seq, items: saved})
			m.pendingMu.Unlock()
			m.markQueued(seq)

			m.cell.Publish(current)
			req.reply <- nil

			select {
			case m.saves <- saveJob{seq: seq, items: saved}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// consumeEcho reports whether items is the storage echo of a save this
// manager issued; matching drops that save and every older one. A foreign
// emission forgets all pending saves so their later echoes are applied as the
// newest stored state.
func (m *Manager) consumeEcho(items []item.Item) bool {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()

	for idx, p := range m.pending {
		if item.EqualLists(p.items, items) {
			m.pending = append(m.pending[:0:0], m.pending[idx+1:]...)
			return true
		}
	}
	m.pending = nil
	return false
}

// persist writes queued lists in order. A failed write is reported but never
// rolls back the published list.
func (m *Manager) persist(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-m.saves:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			err := m.repo.Save(ctx, job.items)
			if err != nil {
				m.forgetSave(job.seq)
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("persist shopping list: %v", err)
				m.cell.Fail(err)
				m.reportFailure(err)
			} else {
				m.cell.Recover()
			}
			m.markWritten(job.seq)
		}
	}
}

// forgetSave drops a failed save; it will never produce an echo.
func (m *Manager) forgetSave(seq uint64) {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	for idx := range m.pending {
		if m.pending[idx].seq == seq {
			m.pending = append(m.pending[:idx:idx], m.pending[idx+1:]...)
			return
		}
	}
}
