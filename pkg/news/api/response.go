package api

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrorResponse is the body of every non-2xx news and media response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse acknowledges an operation with no entity to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// NotificationResponse is the envelope used by the contact and support-ticket endpoints.
type NotificationResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	TicketID string `json:"ticketId,omitempty"`
	Error    string `json:"error,omitempty"`
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}
