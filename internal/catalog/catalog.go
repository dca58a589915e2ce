package catalog

import (
	"context"
	"sync"
)

// Item is the catalog's view of a recommendable product. Display fields
// are passed through to result consumers untouched; only Visible (and
// existence) affect the recommendation list.
type Item struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"` // display string, already formatted
	ImageURL  string `json:"image"`
	Permalink string `json:"permalink"`
	Visible   bool   `json:"-"`
}

type Store interface {
	// GetItems resolves a batch of item IDs in one call. IDs with no
	// catalog entry are simply absent from the returned map.
	GetItems(ctx context.Context, ids []int64) (map[int64]Item, error)
}

func NewInMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[int64]Item{}}
}

// MemoryStore is the in-process catalog used in tests and offline mode.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[int64]Item
}

func (m *MemoryStore) Put(it Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
}

func (m *MemoryStore) GetItems(_ context.Context, ids []int64) (map[int64]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]Item, len(ids))
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}
