package news_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juristmind/newsroom/pkg/news"
	"github.com/juristmind/newsroom/pkg/news/repo/memory"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type countingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *countingObserver) ItemMutated(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op)
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []news.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []news.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []news.Option{
				news.WithRepository(memory.New()),
			},
		},
		{
			name: "with repository and sanitizer should succeed",
			options: []news.Option{
				news.WithRepository(memory.New()),
				news.WithSanitizer(news.NewNoopSanitizer()),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := news.New(tt.options...)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T, opts ...news.Option) (news.Service, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)}
	options := append([]news.Option{
		news.WithRepository(memory.New()),
		news.WithClock(clock.Now),
	}, opts...)

	svc, err := news.New(options...)
	require.NoError(t, err)
	return svc, clock
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		svc, clock := setupTestService(t)

		item, err := svc.CreateItem(ctx, news.CreateItemRequest{
			Title:       "T",
			Description: "D",
			Category:    "C",
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, news.DefaultGradient, item.Gradient)
		assert.Equal(t, news.DefaultAuthor, item.Author)
		assert.True(t, item.IsPublished)
		assert.Equal(t, "2024-03-15", item.PublishedDate.Format(news.DateLayout))
		assert.Equal(t, clock.Now(), item.CreatedAt)
		assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	})

	t.Run("timestamps are millisecond precision", func(t *testing.T) {
		svc, clock := setupTestService(t)
		clock.Set(time.Date(2024, 3, 15, 10, 0, 0, 123456789, time.UTC))

		item, err := svc.CreateItem(ctx, news.CreateItemRequest{
			Title:       "T",
			Description: "D",
			Category:    "C",
		})
		require.NoError(t, err)

		want := time.Date(2024, 3, 15, 10, 0, 0, 123000000, time.UTC)
		assert.Equal(t, want, item.CreatedAt)
		assert.Equal(t, want, item.UpdatedAt)

		clock.Set(time.Date(2024, 3, 15, 11, 0, 0, 987654321, time.UTC))
		updated, err := svc.UpdateItem(ctx, news.UpdateItemRequest{ID: item.ID, Title: strPtr("T2")})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 15, 11, 0, 0, 987000000, time.UTC), updated.UpdatedAt)
		assert.Equal(t, want, updated.CreatedAt)
	})

	t.Run("created item reads back unchanged", func(t *testing.T) {
		svc, clock := setupTestService(t)
		clock.Set(time.Date(2024, 3, 15, 10, 0, 0, 555555555, time.UTC))

		created, err := svc.CreateItem(ctx, news.CreateItemRequest{
			Title:       "Launch",
			Description: "We launched",
			Category:    "Product",
			Author:      strPtr("Jane"),
			Body:        strPtr("<p>Hello</p>"),
		})
		require.NoError(t, err)

		fetched, err := svc.GetItem(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, fetched)
	})

	t.Run("keeps provided optional fields", func(t *testing.T) {
		svc, _ := setupTestService(t)

		item, err := svc.CreateItem(ctx, news.CreateItemRequest{
			Title:         "Funding",
			Description:   "Series A",
			Category:      "Company",
			ImageURL:      strPtr("https://cdn.example.com/a.png"),
			Gradient:      strPtr("from-green-500 to-teal-500"),
			PublishedDate: strPtr("2024-01-02"),
			Author:        strPtr("Jane"),
			Body:          strPtr("<p>Hello</p>"),
			IsPublished:   boolPtr(false),
		})
		require.NoError(t, err)

		assert.Equal(t, "https://cdn.example.com/a.png", item.ImageURL)
		assert.Equal(t, "from-green-500 to-teal-500", item.Gradient)
		assert.Equal(t, "2024-01-02", item.PublishedDate.Format(news.DateLayout))
		assert.Equal(t, "Jane", item.Author)
		assert.Equal(t, "<p>Hello</p>", item.Body)
		assert.False(t, item.IsPublished)
	})

	t.Run("sanitizes blog body", func(t *testing.T) {
		svc, _ := setupTestService(t)

		item, err := svc.CreateItem(ctx, news.CreateItemRequest{
			Title:       "T",
			Description: "D",
			Category:    "C",
			Body:        strPtr(`<p onclick="steal()">Hi</p><script>alert(1)</script>`),
		})
		require.NoError(t, err)
		assert.Equal(t, "<p>Hi</p>", item.Body)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		svc, _ := setupTestService(t)

		_, err := svc.CreateItem(ctx, news.CreateItemRequest{Title: "  ", Category: "C"})
		require.Error(t, err)
		assert.ErrorIs(t, err, news.ErrInvalidItem)

		var verr *news.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "title")
		assert.Contains(t, verr.Fields, "description")
		assert.NotContains(t, verr.Fields, "category")
	})

	t.Run("rejects bad image url and date", func(t *testing.T) {
		svc, _ := setupTestService(t)

		_, err := svc.CreateItem(ctx, news.CreateItemRequest{
			Title: "T", Description: "D", Category: "C",
			ImageURL: strPtr("not a url"),
		})
		assert.ErrorIs(t, err, news.ErrInvalidItem)

		_, err = svc.CreateItem(ctx, news.CreateItemRequest{
			Title: "T", Description: "D", Category: "C",
			PublishedDate: strPtr("15/03/2024"),
		})
		assert.ErrorIs(t, err, news.ErrInvalidItem)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("merges provided fields only", func(t *testing.T) {
		svc, clock := setupTestService(t)

		created, err := svc.CreateItem(ctx, news.CreateItemRequest{
			Title: "Old", Description: "Desc", Category: "Cat",
			Author: strPtr("Jane"),
		})
		require.NoError(t, err)

		clock.Set(clock.Now().Add(time.Minute))
		updated, err := svc.UpdateItem(ctx, news.UpdateItemRequest{
			ID:    created.ID,
			Title: strPtr("New"),
		})
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "Desc", updated.Description)
		assert.Equal(t, "Jane", updated.Author)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("updated_at never moves backwards", func(t *testing.T) {
		svc, clock := setupTestService(t)

		created, err := svc.CreateItem(ctx, news.CreateItemRequest{Title: "T", Description: "D", Category: "C"})
		require.NoError(t, err)

		clock.Set(clock.Now().Add(-time.Hour))
		updated, err := svc.UpdateItem(ctx, news.UpdateItemRequest{ID: created.ID, Category: strPtr("Other")})
		require.NoError(t, err)
		assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
	})

	t.Run("can unpublish and republish", func(t *testing.T) {
		svc, _ := setupTestService(t)

		created, err := svc.CreateItem(ctx, news.CreateItemRequest{Title: "T", Description: "D", Category: "C"})
		require.NoError(t, err)

		_, err = svc.UpdateItem(ctx, news.UpdateItemRequest{ID: created.ID, IsPublished: boolPtr(false)})
		require.NoError(t, err)

		_, err = svc.GetItem(ctx, created.ID)
		assert.ErrorIs(t, err, news.ErrItemNotFound)

		_, err = svc.UpdateItem(ctx, news.UpdateItemRequest{ID: created.ID, IsPublished: boolPtr(true)})
		require.NoError(t, err)

		got, err := svc.GetItem(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setupTestService(t)

		_, err := svc.UpdateItem(ctx, news.UpdateItemRequest{ID: uuid.New(), Title: strPtr("x")})
		assert.ErrorIs(t, err, news.ErrItemNotFound)

		var itemErr *news.ItemError
		require.True(t, errors.As(err, &itemErr))
		assert.Equal(t, "update", itemErr.Op)
	})

	t.Run("rejects clearing a required field", func(t *testing.T) {
		svc, _ := setupTestService(t)

		created, err := svc.CreateItem(ctx, news.CreateItemRequest{Title: "T", Description: "D", Category: "C"})
		require.NoError(t, err)

		_, err = svc.UpdateItem(ctx, news.UpdateItemRequest{ID: created.ID, Title: strPtr("")})
		assert.ErrorIs(t, err, news.ErrInvalidItem)
	})
}

func TestListAndGet(t *testing.T) {
	ctx := context.Background()
	svc, clock := setupTestService(t)

	dates := []string{"2024-01-01", "2024-03-01", "2024-02-01"}
	published := []bool{true, false, true}
	ids := make([]uuid.UUID, len(dates))
	for i := range dates {
		item, err := svc.CreateItem(ctx, news.CreateItemRequest{
			Title: "item", Description: "D", Category: "C",
			PublishedDate: strPtr(dates[i]),
			IsPublished:   boolPtr(published[i]),
		})
		require.NoError(t, err)
		ids[i] = item.ID
		clock.Set(clock.Now().Add(time.Second))
	}

	items, err := svc.ListItems(ctx, news.ListItemsRequest{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].ID)
	assert.Equal(t, ids[0], items[1].ID)

	all, err := svc.ListItems(ctx, news.ListItemsRequest{IncludeUnpublished: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[1], all[0].ID)

	_, err = svc.GetItem(ctx, ids[1])
	assert.ErrorIs(t, err, news.ErrItemNotFound)

	_, err = svc.GetItem(ctx, uuid.New())
	assert.True(t, news.IsNotFound(err))
}

func TestListEmptyStoreReturnsEmptySlice(t *testing.T) {
	svc, _ := setupTestService(t)

	items, err := svc.ListItems(context.Background(), news.ListItemsRequest{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()
	observer := &countingObserver{}
	svc, _ := setupTestService(t, news.WithMutationObserver(observer))

	item, err := svc.CreateItem(ctx, news.CreateItemRequest{Title: "T", Description: "D", Category: "C"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))

	_, err = svc.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, news.ErrItemNotFound)

	err = svc.DeleteItem(ctx, item.ID)
	assert.ErrorIs(t, err, news.ErrItemNotFound)

	assert.Equal(t, []string{"create", "delete"}, observer.ops)
}
