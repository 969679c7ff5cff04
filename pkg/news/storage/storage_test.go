package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juristmind/newsroom/pkg/news/storage"
)

func TestValidateKey(t *testing.T) {
	valid := []string{"a.png", "news/2024/a.png", "news/0b9f.jpeg"}
	for _, key := range valid {
		assert.NoError(t, storage.ValidateKey(key), key)
	}

	invalid := []string{"", "/etc/passwd", "../secret", "news/../../x", "news//a.png", "news/./a", `news\a.png`, "news/"}
	for _, key := range invalid {
		assert.ErrorIs(t, storage.ValidateKey(key), storage.ErrInvalidKey, key)
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://host/media/a.png", storage.JoinURL("http://host/media/", "a.png"))
	assert.Equal(t, "http://host/media/a.png", storage.JoinURL("http://host/media", "a.png"))
}
