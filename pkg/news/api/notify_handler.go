package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/juristmind/newsroom/pkg/notify"
)

// MaxNotificationBodyBytes caps contact and ticket payloads.
const MaxNotificationBodyBytes = 64 << 10

// Notifier is the part of notify.Service the handler needs.
type Notifier interface {
	SendContact(ctx context.Context, req notify.ContactRequest) error
	CreateSupportTicket(ctx context.Context, req notify.TicketRequest) (string, error)
}

// NotifyHandler serves the contact-form and support-ticket endpoints.
type NotifyHandler struct {
	notifier Notifier
	limiter  *RateLimiter
	logger   *slog.Logger
}

// NewNotifyHandler creates a handler. limiter may be nil to disable rate limiting.
func NewNotifyHandler(notifier Notifier, limiter *RateLimiter, logger *slog.Logger) *NotifyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotifyHandler{notifier: notifier, limiter: limiter, logger: logger}
}

// Mount registers POST /contact and POST /support-tickets on r.
func (h *NotifyHandler) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Middleware)
		}
		r.Use(RequestSizeLimitMiddleware(MaxNotificationBodyBytes))
		r.Post("/contact", h.SendContact)
		r.Post("/support-tickets", h.CreateSupportTicket)
	})
}

// SendContact handles a contact-form submission
func (h *NotifyHandler) SendContact(w http.ResponseWriter, r *http.Request) {
	var req notify.ContactRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.notifier.SendContact(r.Context(), req); err != nil {
		h.renderFailure(w, r, "failed to send contact email", err)
		return
	}

	render.JSON(w, r, NotificationResponse{Success: true, Message: "Email sent successfully"})
}

// CreateSupportTicket handles a support-ticket submission
func (h *NotifyHandler) CreateSupportTicket(w http.ResponseWriter, r *http.Request) {
	var req notify.TicketRequest
	if !h.decode(w, r, &req) {
		return
	}

	ticketID, err := h.notifier.CreateSupportTicket(r.Context(), req)
	if err != nil {
		h.renderFailure(w, r, "failed to create support ticket", err)
		return
	}

	render.JSON(w, r, NotificationResponse{
		Success:  true,
		TicketID: ticketID,
		Message:  "Support ticket created successfully",
	})
}

func (h *NotifyHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, NotificationResponse{Success: false, Error: "Invalid request body"})
		return false
	}
	return true
}

func (h *NotifyHandler) renderFailure(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, notify.ErrInvalidSubmission) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, NotificationResponse{Success: false, Error: err.Error()})
		return
	}

	h.logger.ErrorContext(r.Context(), msg,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, NotificationResponse{Success: false, Error: "Failed to deliver email"})
}
