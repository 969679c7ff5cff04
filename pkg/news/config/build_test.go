package config

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juristmind/newsroom/pkg/news/repo/memory"
	fsstorage "github.com/juristmind/newsroom/pkg/news/storage/fs"
	memorystorage "github.com/juristmind/newsroom/pkg/news/storage/memory"
	s3storage "github.com/juristmind/newsroom/pkg/news/storage/s3"
	"github.com/juristmind/newsroom/pkg/notify"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildRepositoryMemory(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	repo, closeFn, err := cfg.BuildRepository(context.Background(), discardLogger())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &memory.Repository{}, repo)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestBuildBlobStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		store, err := cfg.BuildBlobStore()
		require.NoError(t, err)
		assert.IsType(t, &memorystorage.Backend{}, store)
		assert.Equal(t, "http://localhost:8080/media/news/a.png", store.URL("news/a.png"))
	})

	t.Run("filesystem", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(WithStorageURL("file://" + dir))
		require.NoError(t, err)

		store, err := cfg.BuildBlobStore()
		require.NoError(t, err)
		assert.IsType(t, &fsstorage.Backend{}, store)

		ctx := context.Background()
		require.NoError(t, store.Put(ctx, "news/a.txt", bytes.NewReader([]byte("hello")), "text/plain"))
		rc, _, err := store.Get(ctx, "news/a.txt")
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("s3", func(t *testing.T) {
		cfg, err := Load(WithStorageURL("s3://media"))
		require.NoError(t, err)
		cfg.S3AccessKeyID = "minioadmin"
		cfg.S3SecretAccessKey = "minioadmin"
		cfg.S3Endpoint = "http://localhost:9000"
		cfg.S3UsePathStyle = true

		store, err := cfg.BuildBlobStore()
		require.NoError(t, err)
		assert.IsType(t, &s3storage.Backend{}, store)
		assert.Equal(t, "http://localhost:9000/media/news/a.png", store.URL("news/a.png"))
	})
}

func TestBuildMailer(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	mailer, err := cfg.BuildMailer(discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.LogMailer{}, mailer)

	cfg.SMTPHost = "smtp.example.com"
	mailer, err = cfg.BuildMailer(discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.SMTPMailer{}, mailer)
}
