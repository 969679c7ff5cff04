// Package storage defines where uploaded media (article images) are kept.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrObjectNotFound is returned when no object exists under the key.
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidKey is returned for empty, absolute or escaping keys.
	ErrInvalidKey = errors.New("invalid object key")
)

// ObjectMeta describes a stored object.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
}

// BlobStore stores media objects under slash-separated keys.
type BlobStore interface {
	// Put stores the reader's content under key, replacing any previous object.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get opens the object for reading. Callers must close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectMeta, error)

	// Delete removes the object.
	Delete(ctx context.Context, key string) error

	// URL returns the public link for key.
	URL(key string) string
}

// ValidateKey rejects keys that could address something outside the store.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	if path.Clean(key) != key {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return ErrInvalidKey
		}
	}
	return nil
}

// JoinURL appends key to base with exactly one slash between them.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
