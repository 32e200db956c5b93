// Package shopping owns the in-memory shopping list and keeps it in step
// with storage.
//
// # Command Loop
//
// A Manager runs two goroutines under an errgroup. The loop goroutine is the
// only code that touches the list: it applies storage emissions and
// commands one at a time, in the order they arrive. The saver goroutine
// writes each resulting list to the repository in the same order.
//
//	Add/Remove/Rename/ToggleOnCart ──→ cmds ──→ run ──→ state.Store ──→ Subscribe
//	                                             │
//	repo.Observe ──────────────────────────────→─┤
//	                                             └──→ saves ──→ persist ──→ repo.Save
//
// Commands are accepted at once but held until the first stored list has
// been loaded, so an early add is never replaced by the initial load. A
// command returns after its result is published; it does not wait for the
// write. Flush waits for every write queued so far.
//
// # Echoes
//
// Storage re-emits every list the manager saves. Each save is remembered
// until an emission equal to it arrives, and that emission is dropped.
// Anything else is a change made elsewhere and replaces the list.
//
// # Failures
//
// A failed save keeps the in-memory list, bumps ConsecutiveFailures on the
// snapshot and is sent to Failures subscribers. If the storage subscription
// itself fails, the manager resubscribes with exponential backoff.
package shopping
