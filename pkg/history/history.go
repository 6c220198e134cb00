// Package history tracks which "item, calendar day" pairs have already
// produced an expiry alert, so the same item is not re-alerted within a day.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pantrywatch/pantrywatch/pkg/storage"
)

// History is the in-memory notified mapping: dedup key -> true. Mutations are
// local until Save is called.
type History map[string]bool

func (h History) Has(key string) bool { return h[key] }

func (h History) Set(key string) { h[key] = true }

// Key builds the per-item-per-day dedup key.
func Key(itemID, day string) string {
	return itemID + "_" + day
}

// Store persists the notified mapping in the NOTIFIED_HISTORY slot.
type Store struct {
	DB *storage.DB
}

func NewStore(db *storage.DB) *Store {
	return &Store{DB: db}
}

// Load reads the persisted mapping. The returned History is always usable: a
// missing slot or unparseable content yields an empty mapping with a nil
// error, and a storage read failure yields an empty mapping alongside the
// error so callers can warn and proceed. Corrupt or unreadable history
// degrades to "may alert once more", which beats failing the scheduling run.
func (s *Store) Load(ctx context.Context) (History, error) {
	raw, ok, err := s.DB.GetSlot(ctx, storage.SlotNotifiedHistory)
	if err != nil {
		return History{}, fmt.Errorf("loading notified history: %w", err)
	}
	if !ok {
		return History{}, nil
	}
	var h History
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return History{}, nil
	}
	if h == nil {
		h = History{}
	}
	return h, nil
}

// Save durably replaces the persisted mapping with h.
func (s *Store) Save(ctx context.Context, h History) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding notified history: %w", err)
	}
	if err := s.DB.SetSlot(ctx, storage.SlotNotifiedHistory, string(raw)); err != nil {
		return fmt.Errorf("saving notified history: %w", err)
	}
	return nil
}

// Clear removes the whole mapping.
func (s *Store) Clear(ctx context.Context) error {
	return s.DB.DeleteSlot(ctx, storage.SlotNotifiedHistory)
}

// PruneBefore drops entries whose day component sorts before the given
// YYYY-MM-DD day, then saves. The scheduler itself never prunes; this backs
// the maintenance command. Returns how many entries were removed.
func (s *Store) PruneBefore(ctx context.Context, day string) (int, error) {
	h, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for key := range h {
		if keyDay(key) < day {
			delete(h, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.Save(ctx, h)
}

// Keys returns the dedup keys in sorted order, for display.
func (h History) Keys() []string {
	out := make([]string, 0, len(h))
	for k := range h {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// keyDay extracts the trailing YYYY-MM-DD from a dedup key. Item ids may
// themselves contain underscores, so take the suffix, not a split.
func keyDay(key string) string {
	const dayLen = len("2006-01-02")
	if len(key) < dayLen {
		return ""
	}
	return key[len(key)-dayLen:]
}
