package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juristmind/newsroom/pkg/news"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements news.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// EnsureSchema creates the news table and its ordering index when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return r.handlePostgresError("ensure schema", err)
	}
	return nil
}

// Ping checks connectivity. Pools are pinged directly; other handles run a trivial query.
func (r *Repository) Ping(ctx context.Context) error {
	if p, ok := r.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := r.db.Exec(ctx, "SELECT 1")
	return err
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("news item already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return news.ErrItemNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const itemColumns = `id, title, description, category, image_url, gradient,
	published_date, author, blog_body, is_published, created_at, updated_at`

func scanItem(row pgx.Row) (*news.Item, error) {
	var item news.Item
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Category, &item.ImageURL,
		&item.Gradient, &item.PublishedDate, &item.Author, &item.Body,
		&item.IsPublished, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.PublishedDate = news.TruncateToDate(item.PublishedDate)
	return &item, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *news.Item) error {
	query := `
		INSERT INTO news (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Title, item.Description, item.Category, item.ImageURL,
		item.Gradient, item.PublishedDate, item.Author, item.Body,
		item.IsPublished, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create item", err)
	}

	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*news.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM news WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get item", err)
	}
	return item, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *news.Item) error {
	query := `
		UPDATE news SET
			title = $2, description = $3, category = $4, image_url = $5,
			gradient = $6, published_date = $7, author = $8, blog_body = $9,
			is_published = $10, updated_at = $11
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		item.ID, item.Title, item.Description, item.Category, item.ImageURL,
		item.Gradient, item.PublishedDate, item.Author, item.Body,
		item.IsPublished, item.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return news.ErrItemNotFound
	}

	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return news.ErrItemNotFound
	}
	return nil
}

func (r *Repository) ListItems(ctx context.Context, filter news.ItemFilter) ([]*news.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM news`
	if filter.PublishedOnly {
		query += ` WHERE is_published = TRUE`
	}
	query += ` ORDER BY published_date DESC, created_at DESC, id::text ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list items", err)
	}
	defer rows.Close()

	items := []*news.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan item", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list items", err)
	}

	return items, nil
}
