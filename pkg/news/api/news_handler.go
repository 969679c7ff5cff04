package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/juristmind/newsroom/pkg/news"
)

// MaxNewsBodyBytes caps create and update payloads.
const MaxNewsBodyBytes = 1 << 20

const (
	msgNotFound         = "News item not found"
	msgFetchFailed      = "Failed to fetch news"
	msgAuthRequired     = "Authentication required"
	msgCreateFailed     = "Failed to create news item"
	msgIDRequired       = "News ID required"
	msgInvalidID        = "Invalid news ID"
	msgUpdateFailed     = "Failed to update news item"
	msgDeleteFailed     = "Failed to delete news item"
	msgDeleted          = "News item deleted successfully"
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgNoFields         = "No fields to update"
)

// NewsHandler serves the single, method-dispatched news endpoint. The item id,
// when needed, travels in the "id" query parameter.
type NewsHandler struct {
	service news.Service
	auth    *Authenticator
	logger  *slog.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(service news.Service, auth *Authenticator, logger *slog.Logger) *NewsHandler {
	if auth == nil {
		auth = NewAuthenticator("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsHandler{service: service, auth: auth, logger: logger}
}

// ServeHTTP dispatches on the request method. It sets the CORS headers and answers
// OPTIONS itself as well as CORSMiddleware does, so it also works unmounted.
func (h *NewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", AllowedHeaders)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		if id := r.URL.Query().Get("id"); id != "" {
			h.getItem(w, r, id)
			return
		}
		h.listItems(w, r)
	case http.MethodPost:
		h.createItem(w, r)
	case http.MethodPut:
		h.updateItem(w, r)
	case http.MethodDelete:
		h.deleteItem(w, r)
	default:
		renderError(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h *NewsHandler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context(), news.ListItemsRequest{})
	if err != nil {
		h.logError(r, "failed to list news items", err)
		renderError(w, r, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	render.JSON(w, r, items)
}

func (h *NewsHandler) getItem(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		renderError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		// Any lookup failure is reported as a missing item.
		if !news.IsNotFound(err) {
			h.logError(r, "failed to get news item", err)
		}
		renderError(w, r, http.StatusNotFound, msgNotFound)
		return
	}
	render.JSON(w, r, item)
}

func (h *NewsHandler) createItem(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Authenticate(r); err != nil {
		renderError(w, r, http.StatusUnauthorized, msgAuthRequired)
		return
	}

	var req news.CreateItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		if h.renderValidation(w, r, err) {
			return
		}
		h.logError(r, "failed to create news item", err)
		renderError(w, r, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

func (h *NewsHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		renderError(w, r, http.StatusBadRequest, msgIDRequired)
		return
	}
	if err := h.auth.Authenticate(r); err != nil {
		renderError(w, r, http.StatusUnauthorized, msgAuthRequired)
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req news.UpdateItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Empty() {
		renderError(w, r, http.StatusBadRequest, msgNoFields)
		return
	}
	req.ID = id

	item, err := h.service.UpdateItem(r.Context(), req)
	if err != nil {
		if h.renderValidation(w, r, err) {
			return
		}
		// An unknown id is reported like any other store failure.
		h.logError(r, "failed to update news item", err)
		renderError(w, r, http.StatusInternalServerError, msgUpdateFailed)
		return
	}

	render.JSON(w, r, item)
}

func (h *NewsHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		renderError(w, r, http.StatusBadRequest, msgIDRequired)
		return
	}
	if err := h.auth.Authenticate(r); err != nil {
		renderError(w, r, http.StatusUnauthorized, msgAuthRequired)
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		if news.IsNotFound(err) {
			renderError(w, r, http.StatusNotFound, msgNotFound)
			return
		}
		h.logError(r, "failed to delete news item", err)
		renderError(w, r, http.StatusInternalServerError, msgDeleteFailed)
		return
	}

	render.JSON(w, r, MessageResponse{Message: msgDeleted})
}

// decode reads exactly one JSON object with no unknown fields. It writes the
// error response itself and reports whether decoding succeeded.
func (h *NewsHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, MaxNewsBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil {
		if dec.Decode(&struct{}{}) != io.EOF {
			err = errors.New("unexpected data after JSON object")
		}
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		renderError(w, r, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return false
	}

	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: msgInvalidBody + ": " + err.Error()})
	return false
}

func (h *NewsHandler) renderValidation(w http.ResponseWriter, r *http.Request, err error) bool {
	var verr *news.ValidationError
	if errors.As(err, &verr) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
		return true
	}
	if news.IsInvalid(err) {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}

func (h *NewsHandler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
}
