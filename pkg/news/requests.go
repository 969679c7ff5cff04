package news

import "github.com/google/uuid"

// CreateItemRequest is the accepted shape of a create call. Optional fields left
// nil receive the documented defaults.
type CreateItemRequest struct {
	Title         string  `json:"title" validate:"required,max=300"`
	Description   string  `json:"description" validate:"required,max=2000"`
	Category      string  `json:"category" validate:"required,max=100"`
	ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,optionalurl,max=2048"`
	Gradient      *string `json:"gradient,omitempty" validate:"omitempty,max=200"`
	PublishedDate *string `json:"published_date,omitempty"`
	Author        *string `json:"author,omitempty" validate:"omitempty,max=200"`
	Body          *string `json:"blog_body,omitempty"`
	IsPublished   *bool   `json:"is_published,omitempty"`
}

// UpdateItemRequest is a partial update. Only non-nil fields are applied.
type UpdateItemRequest struct {
	ID            uuid.UUID `json:"-"`
	Title         *string   `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	Category      *string   `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	ImageURL      *string   `json:"image_url,omitempty" validate:"omitempty,optionalurl,max=2048"`
	Gradient      *string   `json:"gradient,omitempty" validate:"omitempty,max=200"`
	PublishedDate *string   `json:"published_date,omitempty"`
	Author        *string   `json:"author,omitempty" validate:"omitempty,max=200"`
	Body          *string   `json:"blog_body,omitempty"`
	IsPublished   *bool     `json:"is_published,omitempty"`
}

// Empty reports whether the update carries no fields.
func (r UpdateItemRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Category == nil &&
		r.ImageURL == nil && r.Gradient == nil && r.PublishedDate == nil &&
		r.Author == nil && r.Body == nil && r.IsPublished == nil
}

// ListItemsRequest controls the list read path.
type ListItemsRequest struct {
	// IncludeUnpublished is only honoured for trusted callers; the public HTTP
	// surface never sets it.
	IncludeUnpublished bool
}
