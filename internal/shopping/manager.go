package shopping

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/five82/shoplist/internal/item"
	"github.com/five82/shoplist/internal/repository"
	"github.com/five82/shoplist/internal/state"
)

var (
	// ErrClosed is returned for commands that did not run before teardown.
	ErrClosed = errors.New("shopping list manager closed")
	// ErrMissingID rejects items that were not built with item.New.
	ErrMissingID = errors.New("item has no id")
)

const (
	defaultQueueSize = 64
	failureBuffer    = 8
)

// Option customizes a Manager.
type Option func(*Manager)

// WithClock sets the time source used by AddName.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRetryBase sets the first delay before resubscribing after a fatal
// storage fault.
func WithRetryBase(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.retryBase = d
		}
	}
}

type request struct {
	cmd   Command
	reply chan error
}

type pendingSave struct {
	seq   uint64
	items []item.Item
}

type saveJob struct {
	seq   uint64
	items []item.Item
}

// Manager owns the authoritative in-memory list. Commands run one at a time
// in submission order; each publishes the new list and then queues a full
// save, and saves run in the same order on a separate goroutine.
type Manager struct {
	repo      repository.Repository
	cell      state.Store
	now       func() time.Time
	queueSize int
	retryBase time.Duration

	cmds  chan request
	saves chan saveJob

	// pending holds saves whose storage echo has not been observed yet.
	pendingMu sync.Mutex
	pending   []pendingSave

	failMu   sync.Mutex
	failSubs map[int]chan error
	failNext int

	// queued and written track save sequence numbers for Flush.
	flushMu sync.Mutex
	queued  uint64
	written uint64
	wrote   chan struct{}

	// closed is set under submitMu once no request can enter cmds.
	submitMu sync.RWMutex
	closed   bool

	stop   <-chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a manager bound to ctx. It subscribes to repo immediately;
// commands wait in the queue until the first stored list has been loaded.
func New(ctx context.Context, repo repository.Repository, opts ...Option) *Manager {
	m := &Manager{
		repo:      repo,
		now:       time.Now,
		queueSize: defaultQueueSize,
		retryBase: defaultRetryBase,
		failSubs:  make(map[int]chan error),
		wrote:     make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cmds = make(chan request, m.queueSize)
	m.saves = make(chan saveJob, m.queueSize)

	ctx, m.cancel = context.WithCancel(ctx)
	m.stop = ctx.Done()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.run(gctx) })
	g.Go(func() error { return m.persist(gctx) })

	go func() {
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("shopping list manager stopped: %v", err)
		}
		m.cancel()
		m.rejectQueued()
		m.cell.CloseAll()
		m.closeFailures()
		close(m.done)
	}()
	return m
}

// Close cancels pending commands and the storage subscription and waits for
// the manager goroutines to exit. No saves are attempted afterwards.
func (m *Manager) Close() {
	m.cancel()
	<-m.done
}

// Done is closed once the manager has shut down.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Submit enqueues cmd and returns a channel that receives nil once the
// resulting list has been published, or ErrClosed if the manager shut down
// first. Calls from one goroutine are applied in call order.
func (m *Manager) Submit(cmd Command) <-chan error {
	reply := make(chan error, 1)
	if err := validate(cmd); err != nil {
		reply <- err
		return reply
	}

	m.submitMu.RLock()
	defer m.submitMu.RUnlock()
	if m.closed {
		reply <- ErrClosed
		return reply
	}
	select {
	case m.cmds <- request{cmd: cmd, reply: reply}:
	case <-m.stop:
		reply <- ErrClosed
	}
	return reply
}

// rejectQueued answers every request the loop never took with ErrClosed.
// Submit cannot enqueue once closed is set, so the drain is complete.
func (m *Manager) rejectQueued() {
	m.submitMu.Lock()
	m.closed = true
	m.submitMu.Unlock()

	for {
		select {
		case req := <-m.cmds:
			req.reply <- ErrClosed
		default:
			return
		}
	}
}

func validate(cmd Command) error {
	switch cmd.Op {
	case OpAdd:
		if cmd.Item.ID == uuid.Nil {
			return ErrMissingID
		}
		if _, err := item.CleanName(cmd.Item.Name); err != nil {
			return err
		}
	case OpRename:
		if _, err := item.CleanName(cmd.Name); err != nil {
			return err
		}
	case OpRemove, OpToggle:
	default:
		return fmt.Errorf("unknown command %v", cmd.Op)
	}
	return nil
}

func (m *Manager) await(ctx context.Context, reply <-chan error) error {
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		select {
		case err := <-reply:
			return err
		default:
			return ErrClosed
		}
	}
}

// Add appends it and waits until the new list is published.
func (m *Manager) Add(ctx context.Context, it item.Item) error {
	return m.await(ctx, m.Submit(AddCommand(it)))
}

// AddName builds an item from name using the manager clock and adds it.
func (m *Manager) AddName(ctx context.Context, name string) (item.Item, error) {
	it, err := item.New(name, m.now())
	if err != nil {
		return item.Item{}, err
	}
	if err := m.Add(ctx, it); err != nil {
		return item.Item{}, err
	}
	return it, nil
}

// Remove deletes every entry with id. Unknown ids are a no-op.
func (m *Manager) Remove(ctx context.Context, id uuid.UUID) error {
	return m.await(ctx, m.Submit(RemoveCommand(id)))
}

// Rename gives every entry with id the trimmed name. Blank names are
// rejected with item.ErrBlankName.
func (m *Manager) Rename(ctx context.Context, id uuid.UUID, name string) error {
	trimmed, err := item.CleanName(name)
	if err != nil {
		return err
	}
	return m.await(ctx, m.Submit(RenameCommand(id, trimmed)))
}

// ToggleOnCart flips the cart flag of every entry with id.
func (m *Manager) ToggleOnCart(ctx context.Context, id uuid.UUID) error {
	return m.await(ctx, m.Submit(ToggleCommand(id)))
}

// Flush blocks until every save queued so far has been attempted. It returns
// the last persistence error when the most recent save failed.
func (m *Manager) Flush(ctx context.Context) error {
	m.flushMu.Lock()
	target := m.queued
	m.flushMu.Unlock()

	for {
		m.flushMu.Lock()
		written, wrote := m.written, m.wrote
		m.flushMu.Unlock()
		if written >= target {
			break
		}
		select {
		case <-wrote:
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		}
	}

	if snap := m.cell.Snapshot(); snap.ConsecutiveFailures > 0 {
		return snap.LastError
	}
	return nil
}

func (m *Manager) markQueued(seq uint64) {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()
	m.queued = seq
}

func (m *Manager) markWritten(seq uint64) {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()
	m.written = seq
	close(m.wrote)
	m.wrote = make(chan struct{})
}

// Items returns a copy of the current list.
func (m *Manager) Items() []item.Item {
	return m.cell.Snapshot().Items
}

// Snapshot returns the current list together with persistence health.
func (m *Manager) Snapshot() state.Snapshot {
	return m.cell.Snapshot()
}

// Subscribe delivers the current snapshot and then every change until ctx is
// cancelled or the manager closes.
func (m *Manager) Subscribe(ctx context.Context) <-chan state.Snapshot {
	ch, cancel := m.cell.Subscribe()
	go func() {
		select {
		case <-ctx.Done():
		case <-m.done:
		}
		cancel()
	}()
	return ch
}

// Ready blocks until the stored list has been loaded.
func (m *Manager) Ready(ctx context.Context) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}
	ch := m.Subscribe(ctx)
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return ErrClosed
			}
			if snap.Hydrated {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Failures delivers persistence and storage faults. Slow readers miss
// failures rather than stalling the manager.
func (m *Manager) Failures(ctx context.Context) <-chan error {
	ch := make(chan error, failureBuffer)

	m.failMu.Lock()
	select {
	case <-m.done:
		m.failMu.Unlock()
		close(ch)
		return ch
	default:
	}
	id := m.failNext
	m.failNext++
	m.failSubs[id] = ch
	m.failMu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-m.done:
		}
		m.failMu.Lock()
		defer m.failMu.Unlock()
		if c, ok := m.failSubs[id]; ok {
			delete(m.failSubs, id)
			close(c)
		}
	}()
	return ch
}

func (m *Manager) reportFailure(err error) {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	for _, ch := range m.failSubs {
		select {
		case ch <- err:
		default:
		}
	}
}

func (m *Manager) closeFailures() {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	for id, ch := range m.failSubs {
		delete(m.failSubs, id)
		close(ch)
	}
}
