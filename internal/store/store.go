// Package store owns the authoritative, ordered item collection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/model"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/obs"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/risk"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/storage"
)

// DefaultKey is the storage key holding the serialized collection.
const DefaultKey = "products"

// ErrPersist marks a failed write. The in-memory change it accompanies has
// already been applied and is kept.
var ErrPersist = errors.New("persist collection")

// Store holds the catalog in insertion order and writes the whole
// collection to storage after every change.
type Store struct {
	mu    sync.RWMutex
	items []model.Item
	ids   idSource
	st    storage.Storage
	key   string
}

// Option customizes a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the time source used for id synthesis.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.ids.now = now }
}

// New returns an empty Store backed by st. Call Load to rehydrate it.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{st: st, key: DefaultKey, ids: idSource{now: time.Now}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. Corrupt
// data is logged, erased and replaced by an empty collection; only a failed
// read is returned, in which case the store starts empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	blob, err := s.st.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	if len(blob) == 0 {
		return nil
	}
	items, err := decode(blob)
	if err != nil {
		obs.Logger.Warn("storage_corrupt_reset", "key", s.key, "error", err)
		if derr := s.st.Delete(ctx, s.key); derr != nil {
			obs.Logger.Warn("storage_clear_failed", "key", s.key, "error", derr)
		}
		return nil
	}
	for _, it := range items {
		s.ids.observe(it.ID)
	}
	s.items = items
	obs.Logger.Info("collection_loaded", "key", s.key, "items", len(items))
	return nil
}

// Add validates in, scores it and appends the new item. A validation
// failure leaves the store untouched. An error wrapping ErrPersist comes
// with the created item, which stays in memory.
func (s *Store) Add(ctx context.Context, in model.Input) (model.Item, error) {
	if err := in.Validate(); err != nil {
		return model.Item{}, err
	}
	a := risk.Assess(in)
	s.mu.Lock()
	defer s.mu.Unlock()
	it := model.Item{
		ID:             s.ids.next(),
		Name:           in.Name,
		Category:       in.Category,
		Price:          in.Price,
		Quantity:       in.Quantity,
		MonthlyDemand:  in.MonthlyDemand,
		RestockTime:    in.RestockTime,
		RiskScore:      a.Score,
		RiskLevel:      a.Level,
		Decision:       a.Decision.Label,
		DecisionReason: a.Decision.Reason,
	}
	s.items = append(s.items, it)
	return it, s.persistLocked(ctx)
}

// Remove deletes the item with id. Removing an unknown id is a no-op and
// does not touch storage.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
	if i < 0 {
		return false, nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true, s.persistLocked(ctx)
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get returns the item with id, if present.
func (s *Store) Get(id int64) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// Len reports the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) persistLocked(ctx context.Context) error {
	blob, err := Encode(s.items)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.st.Save(ctx, s.key, blob); err != nil {
		obs.Logger.Warn("persist_failed", "key", s.key, "items", len(s.items), "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Encode serializes items as a JSON array. An empty collection encodes as [].
func Encode(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	return json.Marshal(items)
}

func decode(blob []byte) ([]model.Item, error) {
	var items []model.Item
	if err := json.Unmarshal(blob, &items); err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if err := checkItem(it); err != nil {
			return nil, err
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %d", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

// checkItem rejects a stored item that could not have been created by Add:
// missing or invalid attributes, or derived fields that disagree with its score.
func checkItem(it model.Item) error {
	if it.ID <= 0 {
		return fmt.Errorf("item has invalid id %d", it.ID)
	}
	if err := it.Input().Validate(); err != nil {
		return fmt.Errorf("item %d: %w", it.ID, err)
	}
	if !risk.Consistent(it) {
		return fmt.Errorf("item %d: risk fields disagree with score %d", it.ID, it.RiskScore)
	}
	return nil
}
