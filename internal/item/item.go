package item

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrBlankName is returned when a name is empty after trimming.
var ErrBlankName = errors.New("item name is blank")

// Item is one shopping-list entry. Values are immutable per version; use
// WithName and Toggled to derive updated copies.
type Item struct {
	ID        uuid.UUID
	Name      string
	OnCart    bool
	CreatedAt time.Time
}

// New creates an item that is not yet on the cart. The name is trimmed and a
// blank name is rejected.
func New(name string, now time.Time) (Item, error) {
	trimmed, err := CleanName(name)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:        uuid.New(),
		Name:      trimmed,
		CreatedAt: now.UTC(),
	}, nil
}

// CleanName trims surrounding whitespace and rejects blank names.
func CleanName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrBlankName
	}
	return trimmed, nil
}

// WithName returns a copy carrying the new name.
func (i Item) WithName(name string) Item {
	i.Name = name
	return i
}

// Toggled returns a copy with the cart flag inverted.
func (i Item) Toggled() Item {
	i.OnCart = !i.OnCart
	return i
}

// Equal reports whether both items hold the same field values.
func (i Item) Equal(other Item) bool {
	return i.ID == other.ID &&
		i.Name == other.Name &&
		i.OnCart == other.OnCart &&
		i.CreatedAt.Equal(other.CreatedAt)
}

// EqualLists reports whether two lists hold equal items in the same order.
func EqualLists(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if !a[idx].Equal(b[idx]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the list. A nil or empty input yields
// an empty, non-nil slice so observers never see nil.
func Clone(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}

// Split partitions items into those still to collect and those on the cart,
// preserving order within each group.
func Split(items []Item) (pending, onCart []Item) {
	for _, it := range items {
		if it.OnCart {
			onCart = append(onCart, it)
		} else {
			pending = append(pending, it)
		}
	}
	return pending, onCart
}
