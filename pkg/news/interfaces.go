package news

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for news item persistence (the content store)
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	// UpdateItem replaces the stored row; it returns ErrItemNotFound when id is unknown.
	UpdateItem(ctx context.Context, item *Item) error
	// DeleteItem hard-deletes the row; it returns ErrItemNotFound when id is unknown.
	DeleteItem(ctx context.Context, id uuid.UUID) error
	// ListItems returns matching items ordered as defined by Less.
	ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error)
}

// Pinger is implemented by repositories backed by a remote database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sanitizer cleans user-supplied rich text before it is stored.
type Sanitizer interface {
	SanitizeHTML(html string) string
}

// MutationObserver is notified after a successful write. It must not block.
type MutationObserver interface {
	ItemMutated(op string)
}
