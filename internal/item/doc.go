// Package item defines the shopping-list entry and its JSON list codec.
//
// # Identity
//
// Every Item carries an immutable uuid assigned when it is created. Commands
// that target an entry (remove, rename, toggle) match on that identifier, so
// two entries with the same name and cart state stay distinguishable.
//
// # Wire Format
//
// A list is stored as a JSON array:
//
//	[{"id":"8c1f...","name":"Milk","onCart":false,"date":"2025-10-08T21:01:05.123Z"}]
//
// Decoding is all-or-nothing: one malformed element fails the whole list with
// ErrMalformed. Lists written before identifiers existed decode with a
// name-based uuid derived from position, name and date, so identity is stable
// across reads until the list is saved again.
package item
