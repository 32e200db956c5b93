// Package repository translates the persisted shopping-list slot to and from
// item lists.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/five82/shoplist/internal/item"
	"github.com/five82/shoplist/internal/prefs"
)

// Key is the preferences key holding the serialized list.
const Key = "shopping_list"

// Update is one emission of Observe. A non-nil Err is fatal to the
// subscription: the channel closes right after it.
type Update struct {
	Items []item.Item
	Err   error
}

// Repository defines the read and write contract for the persisted list.
type Repository interface {
	Observe(ctx context.Context) <-chan Update
	Save(ctx context.Context, items []item.Item) error
	Clear(ctx context.Context) error
}

// Store is the subset of prefs.Store the repository needs.
type Store interface {
	Subscribe(ctx context.Context) <-chan prefs.Snapshot
	Edit(ctx context.Context, fn func(prefs.Prefs)) error
}

// Prefs stores the list under Key in a preferences store.
type Prefs struct {
	store Store
}

var _ Repository = (*Prefs)(nil)

// New returns a repository backed by store.
func New(store Store) *Prefs {
	return &Prefs{store: store}
}

// Observe emits the stored list now and after every change. Missing or
// malformed data and unavailable storage all yield an empty list; any other
// storage fault is emitted once and ends the subscription.
func (r *Prefs) Observe(ctx context.Context) <-chan Update {
	out := make(chan Update)
	snaps := r.store.Subscribe(ctx)

	go func() {
		defer close(out)
		for {
			var snap prefs.Snapshot
			var ok bool
			select {
			case <-ctx.Done():
				return
			case snap, ok = <-snaps:
				if !ok {
					return
				}
			}

			update := toUpdate(snap)
			select {
			case <-ctx.Done():
				return
			case out <- update:
			}
			if update.Err != nil {
				return
			}
		}
	}()
	return out
}

func toUpdate(snap prefs.Snapshot) Update {
	if snap.Err != nil {
		if errors.Is(snap.Err, prefs.ErrUnavailable) {
			log.Printf("shopping list storage unavailable, using empty list: %v", snap.Err)
			return Update{Items: []item.Item{}}
		}
		return Update{Err: fmt.Errorf("observe shopping list: %w", snap.Err)}
	}

	raw, ok := snap.Prefs.Get(Key)
	if !ok {
		return Update{Items: []item.Item{}}
	}
	items, err := item.Decode(raw)
	if err != nil {
		log.Printf("discarding unreadable shopping list: %v", err)
		return Update{Items: []item.Item{}}
	}
	return Update{Items: items}
}

// Save overwrites the stored list with items.
func (r *Prefs) Save(ctx context.Context, items []item.Item) error {
	raw, err := item.Encode(items)
	if err != nil {
		return fmt.Errorf("encode shopping list: %w", err)
	}
	if err := r.store.Edit(ctx, func(p prefs.Prefs) { p[Key] = raw }); err != nil {
		return fmt.Errorf("save shopping list: %w", err)
	}
	return nil
}

// Clear removes the stored list entirely.
func (r *Prefs) Clear(ctx context.Context) error {
	if err := r.store.Edit(ctx, func(p prefs.Prefs) { delete(p, Key) }); err != nil {
		return fmt.Errorf("clear shopping list: %w", err)
	}
	return nil
}
