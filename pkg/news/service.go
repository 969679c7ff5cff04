package news

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the operations exposed over the content store
type Service interface {
	// ListItems returns items newest first. Unpublished items are excluded unless requested.
	ListItems(ctx context.Context, req ListItemsRequest) ([]*Item, error)

	// GetItem returns a published item; unpublished or unknown ids yield ErrItemNotFound.
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)

	// CreateItem validates the request, applies defaults and stores a new item.
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)

	// UpdateItem merges the provided fields into the stored item.
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*Item, error)

	// DeleteItem removes the item.
	DeleteItem(ctx context.Context, id uuid.UUID) error
}
