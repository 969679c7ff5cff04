package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juristmind/newsroom/pkg/news"
	"github.com/juristmind/newsroom/pkg/news/repo/memory"
	repomongo "github.com/juristmind/newsroom/pkg/news/repo/mongo"
	repopg "github.com/juristmind/newsroom/pkg/news/repo/postgres"
	"github.com/juristmind/newsroom/pkg/news/storage"
	fsstorage "github.com/juristmind/newsroom/pkg/news/storage/fs"
	memorystorage "github.com/juristmind/newsroom/pkg/news/storage/memory"
	s3storage "github.com/juristmind/newsroom/pkg/news/storage/s3"
	"github.com/juristmind/newsroom/pkg/notify"
)

// Repository is a content store that can report its health.
type Repository interface {
	news.Repository
	news.Pinger
}

// BuildRepository connects to the configured database and prepares its schema.
// The returned close function releases the connection.
func (c *Config) BuildRepository(ctx context.Context, logger *slog.Logger) (Repository, func(), error) {
	dbType, err := c.DatabaseType()
	if err != nil {
		return nil, nil, err
	}

	switch dbType {
	case DatabaseMemory:
		return memory.New(), func() {}, nil

	case DatabasePostgres:
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		repo := repopg.NewWithPool(pool)
		if err := repo.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	case DatabaseMongo:
		client, err := repomongo.Connect(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("failed to disconnect from mongo", "error", err)
			}
		}
		repo := repomongo.New(client.Database(c.DBName), logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// BuildBlobStore creates the media store selected by StorageURL.
func (c *Config) BuildBlobStore() (storage.BlobStore, error) {
	storageType, err := c.StorageType()
	if err != nil {
		return nil, err
	}

	switch storageType {
	case StorageMemory:
		return memorystorage.New(c.MediaBaseURL), nil
	case StorageFS:
		return fsstorage.New(fsstorage.Config{
			BaseDir: c.StoragePath(),
			BaseURL: c.MediaBaseURL,
		})
	case StorageS3:
		return s3storage.New(s3storage.Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket(),
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3UsePathStyle,
			PublicBaseURL:   c.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", storageType)
	}
}

// BuildMailer returns an SMTP mailer, or a mailer that only logs when no SMTP
// host is configured.
func (c *Config) BuildMailer(logger *slog.Logger) (notify.Mailer, error) {
	if c.SMTPHost == "" {
		return notify.NewLogMailer(logger), nil
	}
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:       c.SMTPHost,
		Port:       c.SMTPPort,
		Username:   c.SMTPUsername,
		Password:   c.SMTPPassword,
		From:       c.MailFrom,
		Encryption: c.SMTPEncryption,
	}, logger)
}
