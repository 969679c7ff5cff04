package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	KindContact = "contact"
	KindTicket  = "support_ticket"

	DefaultBrand = "JURIST MIND"
)

// Service sends the operator and confirmation emails for each submission.
type Service struct {
	mailer   Mailer
	operator string
	brand    string
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
	validate *validator.Validate
}

// Option configures a Service.
type Option func(*Service)

// WithBrand sets the product name used in subjects and templates.
func WithBrand(brand string) Option {
	return func(s *Service) { s.brand = brand }
}

// WithObserver registers an observer for email outcomes.
func WithObserver(observer Observer) Option {
	return func(s *Service) { s.observer = observer }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock replaces time.Now when generating ticket ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service delivering operator mail to operatorEmail.
func NewService(mailer Mailer, operatorEmail string, opts ...Option) (*Service, error) {
	if mailer == nil {
		return nil, errors.New("mailer is required")
	}
	if operatorEmail == "" {
		return nil, errors.New("operator email is required")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	s := &Service{
		mailer:   mailer,
		operator: operatorEmail,
		brand:    DefaultBrand,
		logger:   slog.Default(),
		now:      time.Now,
		validate: validate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SendContact forwards a contact-form submission.
func (s *Service) SendContact(ctx context.Context, req ContactRequest) error {
	trimAll(&req.Name, &req.Email, &req.Company, &req.Subject, &req.InquiryType)
	if err := s.check(req); err != nil {
		return err
	}

	view := contactView{ContactRequest: req, Brand: s.brand}
	operatorHTML, err := render("contact_operator.html", view)
	if err != nil {
		return fmt.Errorf("render operator email: %w", err)
	}
	confirmationHTML, err := render("contact_confirmation.html", view)
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}

	s.logger.InfoContext(ctx, "received contact form submission",
		"email", req.Email, "subject", req.Subject, "inquiry_type", req.InquiryType)

	return s.deliver(ctx, KindContact,
		Message{
			FromName: s.brand + " Contact",
			To:       []string{s.operator},
			ReplyTo:  req.Email,
			Subject:  "Contact Form: " + req.Subject,
			HTML:     operatorHTML,
		},
		Message{
			FromName: s.brand,
			To:       []string{req.Email},
			Subject:  "We received your message!",
			HTML:     confirmationHTML,
		},
	)
}

// CreateSupportTicket forwards a support ticket and returns its id.
func (s *Service) CreateSupportTicket(ctx context.Context, req TicketRequest) (string, error) {
	trimAll(&req.Name, &req.Email, &req.Company, &req.Issue, &req.Priority)
	if err := s.check(req); err != nil {
		return "", err
	}

	ticketID := fmt.Sprintf("JURIST-%d", s.now().UnixMilli())
	view := ticketView{TicketRequest: req, TicketID: ticketID, Brand: s.brand}

	operatorHTML, err := render("ticket_operator.html", view)
	if err != nil {
		return "", fmt.Errorf("render operator email: %w", err)
	}
	confirmationHTML, err := render("ticket_confirmation.html", view)
	if err != nil {
		return "", fmt.Errorf("render confirmation email: %w", err)
	}

	s.logger.InfoContext(ctx, "received support ticket",
		"ticket_id", ticketID, "email", req.Email, "priority", req.Priority)

	err = s.deliver(ctx, KindTicket,
		Message{
			FromName: s.brand + " Support",
			To:       []string{s.operator},
			ReplyTo:  req.Email,
			Subject:  fmt.Sprintf("Support Ticket %s: %s", ticketID, req.Issue),
			HTML:     operatorHTML,
		},
		Message{
			FromName: s.brand + " Support",
			To:       []string{req.Email},
			Subject:  "Support Ticket Created: " + ticketID,
			HTML:     confirmationHTML,
		},
	)
	if err != nil {
		return "", err
	}
	return ticketID, nil
}

// deliver sends the operator message first; the confirmation is only sent once
// the operator has it.
func (s *Service) deliver(ctx context.Context, kind string, operator, confirmation Message) error {
	if err := s.mailer.Send(ctx, operator); err != nil {
		s.observe(kind, "error")
		return fmt.Errorf("send operator email: %w", err)
	}
	s.observe(kind, "ok")

	if err := s.mailer.Send(ctx, confirmation); err != nil {
		s.observe(kind+"_confirmation", "error")
		return fmt.Errorf("send confirmation email: %w", err)
	}
	s.observe(kind+"_confirmation", "ok")
	return nil
}

func (s *Service) observe(kind, result string) {
	if s.observer != nil {
		s.observer.NotificationSent(kind, result)
	}
}

func (s *Service) check(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "email":
			fields[fe.Field()] = "must be a valid email address"
		case "max":
			fields[fe.Field()] = "must be at most " + fe.Param() + " characters"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return &SubmissionError{Fields: fields}
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
