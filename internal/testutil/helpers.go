package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/juristmind/newsroom/pkg/news"
)

// EditorToken is accepted by servers running presence-only auth.
const EditorToken = "editor-session"

// CreateItem creates a news item via the API and returns it.
func CreateItem(t *testing.T, serverURL string, body map[string]interface{}) news.Item {
	t.Helper()

	reqJSON, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, serverURL+"/news", bytes.NewBuffer(reqJSON))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+EditorToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(respBody))

	var item news.Item
	require.NoError(t, json.Unmarshal(respBody, &item))
	return item
}

// SeedItems creates one published item per title.
func SeedItems(t *testing.T, serverURL string, titles ...string) []news.Item {
	t.Helper()

	items := make([]news.Item, 0, len(titles))
	for _, title := range titles {
		items = append(items, CreateItem(t, serverURL, map[string]interface{}{
			"title":       title,
			"description": title + " summary",
			"category":    "General",
		}))
	}
	return items
}
