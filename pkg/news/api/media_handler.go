package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/juristmind/newsroom/pkg/news/storage"
)

// MaxImageBytes is the largest accepted image upload.
const MaxImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaResponse is returned after a successful upload.
type MediaResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// MediaHandler accepts article image uploads and serves them back.
type MediaHandler struct {
	store  storage.BlobStore
	auth   *Authenticator
	logger *slog.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(store storage.BlobStore, auth *Authenticator, logger *slog.Logger) *MediaHandler {
	if auth == nil {
		auth = NewAuthenticator("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaHandler{store: store, auth: auth, logger: logger}
}

// Routes returns the routes for media
func (h *MediaHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.auth.Middleware).Post("/", h.Upload)
	r.Get("/*", h.Download)
	r.With(h.auth.Middleware).Delete("/*", h.Delete)

	return r
}

// Upload stores the multipart "file" field and returns its key and public URL
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			renderError(w, r, http.StatusRequestEntityTooLarge, "Image must be at most 5 MiB")
			return
		}
		renderError(w, r, http.StatusBadRequest, "Expected multipart form with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "Expected multipart form with a file field")
		return
	}
	defer file.Close()

	if header.Size > MaxImageBytes {
		renderError(w, r, http.StatusRequestEntityTooLarge, "Image must be at most 5 MiB")
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		renderError(w, r, http.StatusBadRequest, "Could not read upload")
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		renderError(w, r, http.StatusUnsupportedMediaType, "Only PNG, JPEG, GIF and WebP images are accepted")
		return
	}

	key := "news/" + uuid.NewString() + ext
	if err := h.store.Put(r.Context(), key, io.MultiReader(bytes.NewReader(head), file), contentType); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to store media", "key", key, "error", err)
		renderError(w, r, http.StatusInternalServerError, "Failed to store image")
		return
	}

	h.logger.InfoContext(r.Context(), "media uploaded", "key", key, "size", header.Size, "content_type", contentType)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, MediaResponse{Key: key, URL: h.store.URL(key)})
}

// Download streams a stored object
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	reader, meta, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			renderError(w, r, http.StatusNotFound, "Media not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to read media", "key", key, "error", err)
		renderError(w, r, http.StatusInternalServerError, "Failed to read media")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.WarnContext(r.Context(), "media stream interrupted", "key", key, "error", err)
	}
}

// Delete removes a stored object. S3 deletes are idempotent, so a missing key is
// only reported by the memory and fs backends.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	if err := h.store.Delete(r.Context(), key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			renderError(w, r, http.StatusNotFound, "Media not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to delete media", "key", key, "error", err)
		renderError(w, r, http.StatusInternalServerError, "Failed to delete media")
		return
	}

	h.logger.InfoContext(r.Context(), "media deleted", "key", key)
	render.JSON(w, r, MessageResponse{Message: "Media deleted successfully"})
}
