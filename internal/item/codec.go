package item

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMalformed reports stored data that cannot be decoded into a list.
var ErrMalformed = errors.New("malformed shopping list")

// DateLayout is the timestamp encoding used for the "date" field.
const DateLayout = time.RFC3339Nano

// legacyNamespace seeds identifiers for entries stored without an "id".
var legacyNamespace = uuid.MustParse("6f2d1c9e-3b7a-4c55-9f0e-2a8d4b1e7c30")

type wireItem struct {
	ID     string  `json:"id,omitempty"`
	Name   *string `json:"name"`
	OnCart bool    `json:"onCart"`
	Date   *string `json:"date"`
}

// Encode serializes the list to its JSON array form. A nil list encodes as [].
func Encode(items []Item) (string, error) {
	out := make([]wireItem, 0, len(items))
	for _, it := range items {
		name := it.Name
		date := it.CreatedAt.UTC().Format(DateLayout)
		out = append(out, wireItem{
			ID:     it.ID.String(),
			Name:   &name,
			OnCart: it.OnCart,
			Date:   &date,
		})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Decode parses a stored JSON array. Entries without a date are stamped with
// the current time. Names are kept as stored, blank included; trimming only
// applies to new input. A document that is not a JSON array, a null entry,
// or a date or id that is present but invalid fails the whole list with an
// error wrapping ErrMalformed.
func Decode(raw string) ([]Item, error) {
	return DecodeAt(raw, time.Now())
}

// DecodeAt is Decode with now used for entries that carry no date.
func DecodeAt(raw string, now time.Time) ([]Item, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	var wire []*wireItem
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	items := make([]Item, 0, len(wire))
	for idx, w := range wire {
		if w == nil {
			return nil, fmt.Errorf("%w: element %d: null", ErrMalformed, idx)
		}
		it, err := w.decode(idx, now)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformed, idx, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (w wireItem) decode(idx int, now time.Time) (Item, error) {
	var name, date string
	if w.Name != nil {
		name = *w.Name
	}
	created := now
	if w.Date != nil {
		date = *w.Date
		parsed, err := time.Parse(DateLayout, date)
		if err != nil {
			return Item{}, fmt.Errorf("parse date: %w", err)
		}
		created = parsed
	}

	var id uuid.UUID
	if strings.TrimSpace(w.ID) == "" {
		id = legacyID(idx, name, date)
	} else {
		var err error
		id, err = uuid.Parse(w.ID)
		if err != nil {
			return Item{}, fmt.Errorf("parse id: %w", err)
		}
	}

	return Item{
		ID:        id,
		Name:      name,
		OnCart:    w.OnCart,
		CreatedAt: created.UTC(),
	}, nil
}

func legacyID(idx int, name, date string) uuid.UUID {
	seed := fmt.Sprintf("%d\x00%s\x00%s", idx, name, date)
	return uuid.NewSHA1(legacyNamespace, []byte(seed))
}
