package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	sanitizer  Sanitizer
	observer   MutationObserver
	logger     *slog.Logger
	now        func() time.Time
	validator  *requestValidator
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithSanitizer overrides the blog body sanitizer
func WithSanitizer(sanitizer Sanitizer) Option {
	return func(s *service) {
		s.sanitizer = sanitizer
	}
}

// WithMutationObserver registers an observer for successful writes
func WithMutationObserver(observer MutationObserver) Option {
	return func(s *service) {
		s.observer = observer
	}
}

// WithLogger sets the logger used for non-fatal conditions
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		sanitizer: NewHTMLSanitizer(),
		logger:    slog.Default(),
		now:       time.Now,
		validator: newRequestValidator(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

func (s *service) ListItems(ctx context.Context, req ListItemsRequest) ([]*Item, error) {
	items, err := s.repository.ListItems(ctx, ItemFilter{PublishedOnly: !req.IncludeUnpublished})
	if err != nil {
		return nil, &ItemError{Op: "list", Err: err}
	}
	if items == nil {
		items = []*Item{}
	}
	return items, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	item, err := s.repository.GetItem(ctx, id)
	if err != nil {
		return nil, &ItemError{ItemID: id, Op: "get", Err: err}
	}
	if !item.IsPublished {
		return nil, &ItemError{ItemID: id, Op: "get", Err: ErrItemNotFound}
	}
	return item, nil
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)

	if err := s.validator.Struct(req); err != nil {
		return nil, &ItemError{Op: "create", Err: err}
	}

	now := s.timestamp()
	item := &Item{
		ID:            uuid.New(),
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Gradient:      DefaultGradient,
		PublishedDate: TruncateToDate(now),
		Author:        DefaultAuthor,
		IsPublished:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if req.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Gradient != nil && strings.TrimSpace(*req.Gradient) != "" {
		item.Gradient = strings.TrimSpace(*req.Gradient)
	}
	if req.Author != nil && strings.TrimSpace(*req.Author) != "" {
		item.Author = strings.TrimSpace(*req.Author)
	}
	if req.PublishedDate != nil && *req.PublishedDate != "" {
		d, err := ParseDate(*req.PublishedDate)
		if err != nil {
			return nil, &ItemError{Op: "create", Err: invalidDate()}
		}
		item.PublishedDate = d
	}
	if req.Body != nil {
		item.Body = s.sanitizer.SanitizeHTML(*req.Body)
	}
	if req.IsPublished != nil {
		item.IsPublished = *req.IsPublished
	}

	if err := s.repository.CreateItem(ctx, item); err != nil {
		return nil, &ItemError{ItemID: item.ID, Op: "create", Err: err}
	}

	s.notify("create", item.ID)
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, req UpdateItemRequest) (*Item, error) {
	if req.ID == uuid.Nil {
		return nil, &ItemError{Op: "update", Err: fmt.Errorf("%w: id is required", ErrInvalidItem)}
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, &ItemError{ItemID: req.ID, Op: "update", Err: err}
	}

	var publishedDate time.Time
	if req.PublishedDate != nil {
		d, err := ParseDate(*req.PublishedDate)
		if err != nil {
			return nil, &ItemError{ItemID: req.ID, Op: "update", Err: invalidDate()}
		}
		publishedDate = d
	}

	// Not atomic with the write below: concurrent updates are last-write-wins.
	item, err := s.repository.GetItem(ctx, req.ID)
	if err != nil {
		return nil, &ItemError{ItemID: req.ID, Op: "update", Err: err}
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Gradient != nil {
		item.Gradient = strings.TrimSpace(*req.Gradient)
	}
	if req.PublishedDate != nil {
		item.PublishedDate = publishedDate
	}
	if req.Author != nil {
		item.Author = strings.TrimSpace(*req.Author)
	}
	if req.Body != nil {
		item.Body = s.sanitizer.SanitizeHTML(*req.Body)
	}
	if req.IsPublished != nil {
		item.IsPublished = *req.IsPublished
	}

	now := s.timestamp()
	if now.After(item.UpdatedAt) {
		item.UpdatedAt = now
	}

	if err := s.repository.UpdateItem(ctx, item); err != nil {
		return nil, &ItemError{ItemID: req.ID, Op: "update", Err: err}
	}

	s.notify("update", item.ID)
	return item, nil
}

// timestamp returns the current time at the precision every repository keeps.
// Mongo stores milliseconds, so anything finer would not survive a round trip.
func (s *service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteItem(ctx, id); err != nil {
		return &ItemError{ItemID: id, Op: "delete", Err: err}
	}

	s.notify("delete", id)
	return nil
}

func (s *service) notify(op string, id uuid.UUID) {
	s.logger.Debug("news item mutated", "op", op, "id", id)
	if s.observer != nil {
		s.observer.ItemMutated(op)
	}
}

func invalidDate() error {
	return &ValidationError{Fields: map[string]string{
		"published_date": "must be a date in YYYY-MM-DD form",
	}}
}

// IsNotFound reports whether err means the item does not exist on the requested path.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

// IsInvalid reports whether err is a request validation failure.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidItem)
}
