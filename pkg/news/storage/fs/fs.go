package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/juristmind/newsroom/pkg/news/storage"
)

// Backend is a filesystem implementation of the storage.BlobStore interface
type Backend struct {
	baseDir string
	baseURL string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing files
	BaseURL string // Prefix for links returned by URL
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir: config.BaseDir,
		baseURL: config.BaseURL,
	}, nil
}

func (b *Backend) path(key string) (string, error) {
	if err := storage.ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(b.baseDir, filepath.FromSlash(key)), nil
}

// Put writes content to a temporary file and renames it into place
func (b *Backend) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	filePath, err := b.path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	return nil
}

// Get opens the file and sniffs its content type
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, *storage.ObjectMeta, error) {
	filePath, err := b.path(key)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, nil, storage.ErrObjectNotFound
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to get file info: %w", err)
	}

	contentType := "application/octet-stream"
	buffer := make([]byte, 512)
	n, _ := file.Read(buffer)
	if n > 0 {
		contentType = http.DetectContentType(buffer[:n])
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	meta := &storage.ObjectMeta{
		Key:         key,
		Size:        info.Size(),
		ContentType: contentType,
	}
	return file, meta, nil
}

// Delete removes the file
func (b *Backend) Delete(ctx context.Context, key string) error {
	filePath, err := b.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the link served by the media handler
func (b *Backend) URL(key string) string {
	return storage.JoinURL(b.baseURL, key)
}
