package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/juristmind/newsroom/pkg/news"
)

// CollectionName is the collection holding news items.
const CollectionName = "news"

type itemDocument struct {
	ID            string    `bson:"_id"`
	Title         string    `bson:"title"`
	Description   string    `bson:"description"`
	Category      string    `bson:"category"`
	ImageURL      string    `bson:"image_url"`
	Gradient      string    `bson:"gradient"`
	PublishedDate time.Time `bson:"published_date"`
	Author        string    `bson:"author"`
	Body          string    `bson:"blog_body"`
	IsPublished   bool      `bson:"is_published"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func fromItem(item *news.Item) itemDocument {
	return itemDocument{
		ID:            item.ID.String(),
		Title:         item.Title,
		Description:   item.Description,
		Category:      item.Category,
		ImageURL:      item.ImageURL,
		Gradient:      item.Gradient,
		PublishedDate: news.TruncateToDate(item.PublishedDate),
		Author:        item.Author,
		Body:          item.Body,
		IsPublished:   item.IsPublished,
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (d itemDocument) toItem() (*news.Item, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored id %q: %w", d.ID, err)
	}
	return &news.Item{
		ID:            id,
		Title:         d.Title,
		Description:   d.Description,
		Category:      d.Category,
		ImageURL:      d.ImageURL,
		Gradient:      d.Gradient,
		PublishedDate: news.TruncateToDate(d.PublishedDate),
		Author:        d.Author,
		Body:          d.Body,
		IsPublished:   d.IsPublished,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}

// Repository implements news.Repository on a MongoDB collection.
type Repository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, nil
}

// New returns a repository over db's news collection.
func New(db *mongo.Database, logger *slog.Logger) *Repository {
	return NewWithCollection(db.Collection(CollectionName), logger)
}

// NewWithCollection returns a repository over an explicit collection.
func NewWithCollection(collection *mongo.Collection, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		collection: collection,
		logger:     logger.With("component", "news_mongo_repository"),
	}
}

// EnsureIndexes creates the index backing the published list query.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "is_published", Value: 1},
			{Key: "published_date", Value: -1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes for %s: %w", CollectionName, err)
	}
	return nil
}

// Ping checks the primary is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *Repository) CreateItem(ctx context.Context, item *news.Item) error {
	_, err := r.collection.InsertOne(ctx, fromItem(item))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("news item %s already exists", item.ID)
		}
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*news.Item, error) {
	var doc itemDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, news.ErrItemNotFound
		}
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toItem()
}

func (r *Repository) UpdateItem(ctx context.Context, item *news.Item) error {
	doc := fromItem(item)
	update := bson.M{
		"$set": bson.M{
			"title":          doc.Title,
			"description":    doc.Description,
			"category":       doc.Category,
			"image_url":      doc.ImageURL,
			"gradient":       doc.Gradient,
			"published_date": doc.PublishedDate,
			"author":         doc.Author,
			"blog_body":      doc.Body,
			"is_published":   doc.IsPublished,
			"updated_at":     doc.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return news.ErrItemNotFound
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return news.ErrItemNotFound
	}
	return nil
}

func (r *Repository) ListItems(ctx context.Context, filter news.ItemFilter) ([]*news.Item, error) {
	query := bson.M{}
	if filter.PublishedOnly {
		query["is_published"] = true
	}

	findOptions := options.Find().SetSort(bson.D{
		{Key: "published_date", Value: -1},
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	items := make([]*news.Item, 0, len(docs))
	for _, doc := range docs {
		item, err := doc.toItem()
		if err != nil {
			r.logger.Warn("skipping malformed news document", "id", doc.ID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
