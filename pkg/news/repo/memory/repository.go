package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/juristmind/newsroom/pkg/news"
)

// Repository implements news.Repository using in-memory storage
type Repository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*news.Item
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		items: make(map[uuid.UUID]*news.Item),
	}
}

func (r *Repository) CreateItem(ctx context.Context, item *news.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("news item %s already exists", item.ID)
	}

	// Store a copy to avoid external modifications
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*news.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, news.ErrItemNotFound
	}
	return item.Clone(), nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *news.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		return news.ErrItemNotFound
	}

	r.items[item.ID] = item.Clone()
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return news.ErrItemNotFound
	}

	delete(r.items, id)
	return nil
}

func (r *Repository) ListItems(ctx context.Context, filter news.ItemFilter) ([]*news.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*news.Item, 0, len(r.items))
	for _, item := range r.items {
		if filter.Matches(item) {
			result = append(result, item.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return news.Less(result[i], result[j])
	})

	return result, nil
}

// Ping always succeeds; it lets the readiness probe treat every backend alike.
func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}
