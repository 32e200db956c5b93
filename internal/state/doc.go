// Package state provides the observable list cell shared by the list manager
// and its observers.
//
// # Overview
//
// The manager's command loop is the only writer. Presentation code either
// reads Snapshot on its own schedule or calls Subscribe to be told about
// every change.
//
//	Writer (shopping.Manager):      Readers (UI, CLI):
//	┌──────────────────┐            ┌──────────────────┐
//	│ apply command    │            │                  │
//	│ store.Publish()  │───────────→│ <-Subscribe()    │
//	│ store.Fail(err)  │  (mutex)   │ store.Snapshot() │
//	└──────────────────┘            └──────────────────┘
//
// # Update Semantics
//
// Publish replaces the whole list; there are no diffs. Fail records a
// persistence error without touching the list, so the optimistic in-memory
// state survives a failed write:
//
//	store.Publish(items)
//	→ snapshot.Items = items
//	→ snapshot.Hydrated = true
//
//	store.Fail(err)
//	→ snapshot.Items = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// # Subscriptions
//
// Each subscriber owns a one-slot channel. A new snapshot replaces an unread
// one, so a slow reader skips intermediate states and never blocks the writer.
// The first receive is always the state at subscription time.
//
// # Copies
//
// Item slices and errors are copied on the way in and on the way out. Callers
// may mutate whatever they receive.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	var store state.Store
//	snap := store.Snapshot() // zero Snapshot, Hydrated == false
package state
