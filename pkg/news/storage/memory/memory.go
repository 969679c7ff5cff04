package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/juristmind/newsroom/pkg/news/storage"
)

type object struct {
	data        []byte
	contentType string
}

// Backend is an in-memory implementation of the storage.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

// New creates a new in-memory storage backend. baseURL prefixes the links returned by URL.
func New(baseURL string) *Backend {
	return &Backend{
		objects: make(map[string]object),
		baseURL: baseURL,
	}
}

// Put stores content in memory
func (b *Backend) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = object{data: data, contentType: contentType}
	return nil
}

// Get returns a reader over the stored bytes
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, *storage.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[key]
	if !exists {
		return nil, nil, storage.ErrObjectNotFound
	}

	meta := &storage.ObjectMeta{
		Key:         key,
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
	}
	return io.NopCloser(bytes.NewReader(obj.data)), meta, nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return storage.ErrObjectNotFound
	}

	delete(b.objects, key)
	return nil
}

// URL returns the link served by the media handler
func (b *Backend) URL(key string) string {
	return storage.JoinURL(b.baseURL, key)
}
