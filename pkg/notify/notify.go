// Package notify forwards contact-form and support-ticket submissions as two
// emails: one to the operator with reply-to set to the submitter, and a
// confirmation to the submitter. Nothing is persisted.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidSubmission is matched by every *SubmissionError.
var ErrInvalidSubmission = errors.New("invalid submission")

// SubmissionError lists offending fields of a submission, keyed by JSON name.
type SubmissionError struct {
	Fields map[string]string
}

func (e *SubmissionError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrInvalidSubmission
}

// ContactRequest is a contact-form submission.
type ContactRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email,max=320"`
	Company     string `json:"company,omitempty" validate:"max=200"`
	Subject     string `json:"subject" validate:"required,max=300"`
	Message     string `json:"message" validate:"required,max=10000"`
	InquiryType string `json:"inquiryType,omitempty" validate:"max=100"`
}

// TicketRequest is a support-ticket submission.
type TicketRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email,max=320"`
	Company     string `json:"company,omitempty" validate:"max=200"`
	Issue       string `json:"issue" validate:"required,max=300"`
	Description string `json:"description" validate:"required,max=10000"`
	Priority    string `json:"priority" validate:"required,max=50"`
}

// Message is a single outgoing HTML email.
type Message struct {
	FromName string
	To       []string
	ReplyTo  string
	Subject  string
	HTML     string
}

// Mailer delivers messages through an email provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Observer is told about every attempted email. It must not block.
type Observer interface {
	NotificationSent(kind, result string)
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return fmt.Errorf("no recipients provided for email")
	}
	if m.HTML == "" {
		return fmt.Errorf("email body must be provided")
	}
	return nil
}
