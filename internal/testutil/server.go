// Package testutil starts in-process newsroom servers for package tests.
package testutil

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/juristmind/newsroom/pkg/news"
	"github.com/juristmind/newsroom/pkg/news/api"
	memoryrepo "github.com/juristmind/newsroom/pkg/news/repo/memory"
	memorystorage "github.com/juristmind/newsroom/pkg/news/storage/memory"
)

// NewsServer is a running server backed by in-memory stores.
type NewsServer struct {
	URL     string
	Repo    *memoryrepo.Repository
	Media   *memorystorage.Backend
	Service news.Service
	Server  *httptest.Server
}

// SetupNewsServer starts a server with presence-only auth. It is closed when the test ends.
func SetupNewsServer(t *testing.T) *NewsServer {
	t.Helper()

	repo := memoryrepo.New()
	svc, err := news.New(news.WithRepository(repo))
	require.NoError(t, err)

	server := httptest.NewUnstartedServer(nil)
	media := memorystorage.New("http://" + server.Listener.Addr().String() + "/media")

	server.Config.Handler = api.NewRouter(api.RouterConfig{
		News:   svc,
		Auth:   api.NewAuthenticator(""),
		Media:  media,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	server.Start()
	t.Cleanup(server.Close)

	return &NewsServer{
		URL:     server.URL,
		Repo:    repo,
		Media:   media,
		Service: svc,
		Server:  server,
	}
}
