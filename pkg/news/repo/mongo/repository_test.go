package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/juristmind/newsroom/pkg/news"
)

func itemDoc(id uuid.UUID, title string, published bool) bson.D {
	created := time.Date(2024, 5, 4, 9, 30, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "title", Value: title},
		{Key: "description", Value: "desc"},
		{Key: "category", Value: "Product"},
		{Key: "image_url", Value: ""},
		{Key: "gradient", Value: news.DefaultGradient},
		{Key: "published_date", Value: news.TruncateToDate(created)},
		{Key: "author", Value: news.DefaultAuthor},
		{Key: "blog_body", Value: ""},
		{Key: "is_published", Value: published},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	}
}

func TestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.CreateItem(ctx, &news.Item{ID: uuid.New(), Title: "T"})
		assert.NoError(mt, err)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.CreateItem(ctx, &news.Item{ID: uuid.New(), Title: "T"})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "already exists")
	})

	mt.Run("get", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		id := uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.news", mtest.FirstBatch, itemDoc(id, "Hello", true)))

		item, err := repo.GetItem(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, id, item.ID)
		assert.Equal(mt, "Hello", item.Title)
		assert.Equal(mt, "2024-05-04", item.PublishedDate.Format(news.DateLayout))
	})

	mt.Run("get not found", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.news", mtest.FirstBatch))

		_, err := repo.GetItem(ctx, uuid.New())
		assert.ErrorIs(mt, err, news.ErrItemNotFound)
	})

	mt.Run("update unknown", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdateItem(ctx, &news.Item{ID: uuid.New()})
		assert.ErrorIs(mt, err, news.ErrItemNotFound)
	})

	mt.Run("update", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		assert.NoError(mt, repo.UpdateItem(ctx, &news.Item{ID: uuid.New(), Title: "new"}))
	})

	mt.Run("delete twice", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		id := uuid.New()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		require.NoError(mt, repo.DeleteItem(ctx, id))
		assert.ErrorIs(mt, repo.DeleteItem(ctx, id), news.ErrItemNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		first, second := uuid.New(), uuid.New()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "db.news", mtest.FirstBatch,
				itemDoc(first, "first", true),
				itemDoc(second, "second", true)),
			mtest.CreateCursorResponse(0, "db.news", mtest.NextBatch),
		)

		items, err := repo.ListItems(ctx, news.ItemFilter{PublishedOnly: true})
		require.NoError(mt, err)
		require.Len(mt, items, 2)
		assert.Equal(mt, first, items[0].ID)
		assert.Equal(mt, second, items[1].ID)
	})

	mt.Run("list skips malformed ids", func(mt *mtest.T) {
		repo := NewWithCollection(mt.Coll, nil)
		bad := itemDoc(uuid.New(), "bad", true)
		bad[0].Value = "not-a-uuid"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.news", mtest.FirstBatch, bad, itemDoc(uuid.New(), "good", true)),
		)

		items, err := repo.ListItems(ctx, news.ItemFilter{})
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		assert.Equal(mt, "good", items[0].Title)
	})
}
